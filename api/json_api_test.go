package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rpupo63/virtuality-fashion-backend/storage"
	"github.com/rs/zerolog"
)

func TestCreateThenListTeamMembers(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.sendJSON(http.MethodPost, "/api/team-member", validMember())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[models.TeamMember](t, rec)
	if created.Portrait != nil || created.YearsExperience != 0 {
		t.Errorf("created = %+v, want nil portrait and 0 years", created)
	}

	rec = env.getPage("/api/team-members")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decodeBody[TeamMemberCollection](t, rec)
	if list.Source != catalog.SourceStore || list.Total != 1 {
		t.Fatalf("list = %+v, want one stored member", list)
	}
	got := list.TeamMembers[0]
	if got.ID != created.ID || got.Name != "Jane Doe" {
		t.Errorf("first member = %s %q, want %s Jane Doe", got.ID, got.Name, created.ID)
	}
	if got.Languages == nil || len(got.Languages) != 0 || len(got.PortfolioItems) != 0 {
		t.Errorf("lists = %v / %v, want empty", got.Languages, got.PortfolioItems)
	}
}

func TestCreateTeamMemberValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	body := validMember()
	body["name"] = "  "
	delete(body, "bio")
	rec := env.sendJSON(http.MethodPost, "/api/team-member", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeBody[ErrorResponse](t, rec)
	if resp.Fields["name"] != "Name is required" || resp.Fields["bio"] != "Bio is required" {
		t.Errorf("fields = %v", resp.Fields)
	}

	rec = env.sendJSON(http.MethodPost, "/api/team-member", "not an object")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d, want 400", rec.Code)
	}
}

func TestDecodeJSONBodyLogsBoundedPrefix(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	payload := `{"name": "Jane", "bio": "` + strings.Repeat("x", 500) + `SECRET-TAIL`

	req := httptest.NewRequest(http.MethodPost, "/api/team-member", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	var dst map[string]any
	if decodeJSONBody(NewResponder(logger), logger, rec, req, "team member", &dst) {
		t.Fatal("malformed body decoded")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	out := logs.String()
	if strings.Contains(out, "SECRET-TAIL") {
		t.Errorf("log carries the whole body: %s", out)
	}
	if !strings.Contains(out, `"bodySize":`) || !strings.Contains(out, `{\"name\": \"Jane\"`) {
		t.Errorf("log lacks size or prefix: %s", out)
	}
}

func TestListTeamMembersFallback(t *testing.T) {
	tests := []struct {
		name       string
		policy     catalog.FallbackPolicy
		storeErr   error
		wantStatus int
		wantSource catalog.Source
		wantTotal  int
	}{
		{"empty store, always", catalog.FallbackAlways, nil, http.StatusOK, catalog.SourceFallback, 3},
		{"unavailable, always", catalog.FallbackAlways, errors.New("dial tcp: connection refused"), http.StatusOK, catalog.SourceFallback, 3},
		{"unavailable, empty-only", catalog.FallbackEmptyOnly, errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable, "", 0},
		{"empty store, never", catalog.FallbackNever, nil, http.StatusOK, catalog.SourceStore, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, catalog.WithFallbackPolicy(tt.policy))
			env.mocks.Store.SetErr(tt.storeErr)

			rec := env.getPage("/api/team-members")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if rec.Code != http.StatusOK {
				return
			}
			list := decodeBody[TeamMemberCollection](t, rec)
			if list.Source != tt.wantSource || list.Total != tt.wantTotal {
				t.Errorf("got source %q total %d", list.Source, list.Total)
			}
		})
	}
}

func TestGetTeamMemberFallsBackToSample(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.getPage("/api/team-member/" + catalog.SampleSarahChenID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if m := decodeBody[models.TeamMember](t, rec); m.Name != "Sarah Chen" {
		t.Errorf("name = %q", m.Name)
	}

	rec = env.getPage("/api/team-member/does-not-exist")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestDeleteTeamMemberCascades(t *testing.T) {
	env := newTestEnv(t, nil)

	member := decodeBody[models.TeamMember](t, env.sendJSON(http.MethodPost, "/api/team-member", validMember()))
	rec := env.sendJSON(http.MethodPost, "/api/team-member/"+member.ID.String()+"/portfolio-item", map[string]any{"title": "Wool coat"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create item status = %d, body %s", rec.Code, rec.Body.String())
	}
	item := decodeBody[models.PortfolioItem](t, rec)

	if rec := env.sendJSON(http.MethodDelete, "/api/team-member/"+member.ID.String(), nil); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := env.getPage("/api/portfolio-item/" + item.ID.String()); rec.Code != http.StatusNotFound {
		t.Errorf("item after member delete: status = %d, want 404", rec.Code)
	}
}

func TestPortfolioItemForUnknownMember(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.sendJSON(http.MethodPost, "/api/team-member/"+catalog.SampleMarcoRossiID.String()+"/portfolio-item", map[string]any{"title": "Orphan"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
	}

	rec = env.sendJSON(http.MethodPost, "/api/team-member/"+catalog.SampleMarcoRossiID.String()+"/portfolio-item", map[string]any{"title": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp := decodeBody[ErrorResponse](t, rec); resp.Fields["title"] != "Title is required" {
		t.Errorf("fields = %v", resp.Fields)
	}
}

func TestUpdatePortfolioItem(t *testing.T) {
	env := newTestEnv(t, nil)

	member := decodeBody[models.TeamMember](t, env.sendJSON(http.MethodPost, "/api/team-member", validMember()))
	item := decodeBody[models.PortfolioItem](t, env.sendJSON(http.MethodPost,
		"/api/team-member/"+member.ID.String()+"/portfolio-item", map[string]any{"title": "Draft", "category": "Outerwear"}))

	rec := env.sendJSON(http.MethodPut, "/api/portfolio-item/"+item.ID.String(), map[string]any{"title": "Final"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	updated := decodeBody[models.PortfolioItem](t, rec)
	if updated.Title != "Final" || updated.Category != nil {
		t.Errorf("updated = %+v, want full overwrite", updated)
	}

	rec = env.getPage("/api/team-member/" + member.ID.String() + "/portfolio-items")
	if list := decodeBody[PortfolioItemCollection](t, rec); list.Total != 1 {
		t.Errorf("member items = %d, want 1", list.Total)
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv(t, nil)
	env.sendJSON(http.MethodPost, "/api/team-member", validMember())

	rec := env.getPage("/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if stats := decodeBody[catalog.Stats](t, rec); stats.TeamMembers != 1 || stats.PortfolioItems != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestUploadEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		folder      string
		contentType string
		size        int64
		wantStatus  int
		wantCalls   int
	}{
		{"image", "portraits", "image/png", 1024, http.StatusOK, 1},
		{"not an image", "portraits", "application/pdf", 1024, http.StatusUnsupportedMediaType, 0},
		{"too large", "portfolio", "image/jpeg", storage.MaxImageSize + 1, http.StatusRequestEntityTooLarge, 0},
		{"bad folder", "avatars", "image/png", 1024, http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			body, contentType := multipartBody(t, map[string]string{"folder": tt.folder}, "file", "look.png", tt.contentType, tt.size)
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Content-Type", contentType)

			rec := env.do(req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.uploader.calls != tt.wantCalls {
				t.Errorf("gateway calls = %d, want %d", env.uploader.calls, tt.wantCalls)
			}
			if tt.wantStatus == http.StatusOK {
				if resp := decodeBody[UploadResponse](t, rec); resp.URL != "https://cdn.example/portraits/look.png" {
					t.Errorf("url = %q", resp.URL)
				}
			}
		})
	}
}

func TestAdminPasswordGuardsWrites(t *testing.T) {
	env := newTestEnv(t, map[string]string{"ADMIN_PASSWORD": "s3cret"})

	if rec := env.sendJSON(http.MethodPost, "/api/team-member", validMember()); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}
	if rec := env.getPage("/api/team-members"); rec.Code != http.StatusOK {
		t.Errorf("public read status = %d, want 200", rec.Code)
	}

	req := jsonRequest(http.MethodPost, "/api/team-member", validMember())
	req.SetBasicAuth("admin", "s3cret")
	if rec := env.do(req); rec.Code != http.StatusCreated {
		t.Errorf("basic auth status = %d, want 201", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	if rec := env.do(req); rec.Code != http.StatusOK {
		t.Errorf("bearer status = %d, want 200", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil, catalog.WithFallbackPolicy(catalog.FallbackNever))
	env.mocks.Store.SetErr(errors.New("connection refused"))

	rec := env.getPage("/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if h := decodeBody[HealthResponse](t, rec); h.Status != "ok" || h.FallbackPolicy != catalog.FallbackNever {
		t.Errorf("health = %+v", h)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, map[string]string{"ACCEPTED_ORIGINS": "https://virtualityfashion.com"})

	req := httptest.NewRequest(http.MethodOptions, "/api/team-members", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	if rec := env.do(req); rec.Code != http.StatusForbidden {
		t.Errorf("unknown origin status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/team-members", nil)
	req.Header.Set("Origin", "https://virtualityfashion.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := env.do(req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://virtualityfashion.com" {
		t.Errorf("allow origin = %q", got)
	}
}
