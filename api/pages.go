package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rs/zerolog"
)

// all: is required to include the _layout.html files.
//
//go:embed all:templates
var templateFS embed.FS

// view is what every page template receives. Data is page specific.
type view struct {
	Title string
	Data  any
}

// formState is shared by every page that posts a form.
type formState struct {
	Errors  errs.FieldErrors
	Message string
	Sent    bool
}

var templateFuncs = template.FuncMap{
	"deref": models.Deref,
	"join":  strings.Join,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"truncate": func(n int, s string) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return strings.TrimSpace(string(r[:n])) + "…"
	},
}

// renderer holds one parsed template set per page, each combined with the
// layout of its section (public or admin).
type renderer struct {
	pages  map[string]*template.Template
	logger zerolog.Logger
}

func newRenderer(logger zerolog.Logger) (*renderer, error) {
	r := &renderer{pages: map[string]*template.Template{}, logger: logger}
	for _, section := range []string{"public", "admin"} {
		files, err := fs.Glob(templateFS, path.Join("templates", section, "*.html"))
		if err != nil {
			return nil, err
		}
		layout := path.Join("templates", section, "_layout.html")
		for _, file := range files {
			if file == layout {
				continue
			}
			name := section + "/" + strings.TrimSuffix(path.Base(file), ".html")
			t, err := template.New(path.Base(layout)).Funcs(templateFuncs).ParseFS(templateFS, layout, file)
			if err != nil {
				return nil, fmt.Errorf("parse template %s: %w", name, err)
			}
			r.pages[name] = t
		}
	}
	return r, nil
}

// render executes a page into a buffer first so a template failure still
// produces a clean 500.
func (r *renderer) render(w http.ResponseWriter, status int, name, title string, data any) {
	t, ok := r.pages[name]
	if !ok {
		r.logger.Error().Str("template", name).Msg("unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", view{Title: title, Data: data}); err != nil {
		r.logger.Error().Err(err).Str("template", name).Msg("error rendering template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// seeOther is the redirect used after a successful form post.
func seeOther(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}
