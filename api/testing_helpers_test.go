package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/database/mock"
	"github.com/rpupo63/virtuality-fashion-backend/leads"
	"github.com/rpupo63/virtuality-fashion-backend/ratelimit"
	"github.com/rpupo63/virtuality-fashion-backend/storage"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	defer goleak.VerifyTestMain(m)
	os.Exit(m.Run())
}

type fakeRelay struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (f *fakeRelay) Submit(ctx context.Context, subject string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return f.err
}

func (f *fakeRelay) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subjects)
}

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, folder storage.Folder, filename, contentType string, body io.Reader, size int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example/" + string(folder) + "/" + filename, nil
}

type testEnv struct {
	router   http.Handler
	mocks    *mock.Mocks
	catalog  *catalog.Catalog
	relay    *fakeRelay
	uploader *fakeUploader
}

func newTestEnv(t *testing.T, cfg map[string]string, opts ...catalog.Option) *testEnv {
	t.Helper()
	mocks := mock.NewMocks()
	c := catalog.New(mocks.TeamMembers, mocks.PortfolioItems, opts...)
	relay := &fakeRelay{}
	uploader := &fakeUploader{}

	router, err := newRouter(Deps{
		Catalog: c,
		Uploads: uploader,
		Leads:   leads.NewSubmitter(relay, nil),
		Limiter: ratelimit.NewMemoryLimiter(),
	}, withConfig(cfg), withStartupTime(time.Now()))
	if err != nil {
		t.Fatalf("newRouter: %v", err)
	}
	return &testEnv{router: router, mocks: mocks, catalog: c, relay: relay, uploader: uploader}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) getPage(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(req)
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "203.0.113.7:5555"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return e.do(req)
}

func jsonRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	return e.do(jsonRequest(method, path, body))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

// multipartBody builds a multipart form with text fields and at most one file.
func multipartBody(t *testing.T, fields map[string]string, fileField, filename, contentType string, size int64) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileField != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+filename+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(bytes.Repeat([]byte{0x42}, int(size))); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func validMember() map[string]any {
	return map[string]any{
		"name":     "Jane Doe",
		"role":     "Pattern Maker",
		"location": "Berlin, Germany",
		"bio":      "Precise patterns for tailored outerwear.",
	}
}
