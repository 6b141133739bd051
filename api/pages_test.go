package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/gate"
	"github.com/rpupo63/virtuality-fashion-backend/leads"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rpupo63/virtuality-fashion-backend/services"
	"github.com/rpupo63/virtuality-fashion-backend/storage"
	"github.com/rs/zerolog"
)

func TestRendererParsesEveryPage(t *testing.T) {
	r, err := newRenderer(zerolog.Nop())
	if err != nil {
		t.Fatalf("newRenderer: %v", err)
	}
	pages := []string{
		"public/home", "public/error", "public/team", "public/member", "public/project",
		"public/contact", "public/enterprise", "public/join",
		"admin/error", "admin/dashboard", "admin/team", "admin/member_form", "admin/confirm",
		"admin/member_portfolio", "admin/portfolio_form", "admin/portfolio",
	}
	for _, name := range pages {
		if _, ok := r.pages[name]; !ok {
			t.Errorf("page %s not parsed", name)
		}
	}
	if _, ok := r.pages["public/_layout"]; ok {
		t.Error("layout parsed as a page")
	}

	rec := httptest.NewRecorder()
	r.render(rec, http.StatusOK, "public/error", "Oops", errorPage{Heading: "Oops", Message: "Gone", Back: "/"})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Gone") {
		t.Fatalf("render status = %d body %s", rec.Code, rec.Body.String())
	}
}

func unlockValues() url.Values {
	return url.Values{
		"name":        {"Ada"},
		"email":       {"ada" + "@acme.example"},
		"company":     {"Acme Apparel"},
		"projectType": {"tech-packs"},
		"consent":     {"on"},
	}
}

func TestTeamPageLockedThenUnlocked(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.getPage("/team")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "inert") || !strings.Contains(body, `id="unlock"`) {
		t.Fatal("locked roster should be inert with an unlock form")
	}
	if !strings.Contains(body, "Sarah Chen") {
		t.Error("sample roster should still be rendered behind the gate")
	}

	rec = env.getPage("/team/" + catalog.SampleSarahChenID.String())
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/team#unlock" {
		t.Fatalf("locked detail: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = env.postForm("/team/unlock", unlockValues())
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("unlock status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env.relay.calls() != 1 || env.relay.subjects[0] != leads.SubjectTeamAccess {
		t.Errorf("relay subjects = %v", env.relay.subjects)
	}
	cookies := rec.Result().Cookies()
	var granted bool
	for _, c := range cookies {
		if c.Name == gate.KeyTeamAccess {
			granted = true
		}
	}
	if !granted {
		t.Fatalf("no %s cookie in %v", gate.KeyTeamAccess, cookies)
	}

	// A later visit with the same cookies is unlocked without another submission.
	rec = env.getPage("/team", cookies...)
	body = rec.Body.String()
	if strings.Contains(body, "inert") || !strings.Contains(body, "/contact?designer=Sarah") {
		t.Error("unlocked roster should be interactive with quote links")
	}
	rec = env.getPage("/team/"+catalog.SampleSarahChenID.String(), cookies...)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Sarah Chen") {
		t.Errorf("detail status = %d", rec.Code)
	}

	rec = env.postForm("/team/unlock", unlockValues(), cookies...)
	if rec.Code != http.StatusSeeOther || env.relay.calls() != 1 {
		t.Errorf("second unlock: status %d, relay calls %d", rec.Code, env.relay.calls())
	}
}

func TestUnlockFailures(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		env := newTestEnv(t, nil)
		form := unlockValues()
		form.Set("email", "not-an-email")
		form.Del("consent")

		rec := env.postForm("/team/unlock", form)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, leads.MsgEmailInvalid) || !strings.Contains(body, "You must agree to the privacy policy") {
			t.Error("field messages missing")
		}
		if env.relay.calls() != 0 {
			t.Error("relay must not be called for an invalid form")
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Error("no cookie may be set on failure")
		}
	})

	t.Run("relay rejected", func(t *testing.T) {
		env := newTestEnv(t, nil)
		env.relay.err = services.ErrRelayRejected

		rec := env.postForm("/team/unlock", unlockValues())
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("status = %d", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, leads.MsgSomethingWrong) || !strings.Contains(body, `value="Acme Apparel"`) {
			t.Error("generic message and the submitted values should be re-rendered")
		}
		if !strings.Contains(body, "inert") {
			t.Error("gate should be locked again")
		}
	})
}

func TestContactForm(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.getPage("/contact?designer=" + url.QueryEscape("Marco Rossi"))
	if !strings.Contains(rec.Body.String(), "I&#39;m interested in working with Marco Rossi.") {
		t.Errorf("message not pre-filled: %s", rec.Body.String())
	}

	form := url.Values{
		"name":    {"Ada"},
		"email":   {"not-an-email"},
		"company": {"Acme"},
		"message": {"Hello"},
	}
	rec = env.postForm("/contact", form)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), leads.MsgEmailInvalid) {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.relay.calls() != 0 {
		t.Fatal("invalid email must not reach the relay")
	}

	form.Set("email", "ada"+"@acme.example")
	form.Set("designer", "Marco Rossi")
	rec = env.postForm("/contact", form)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Thank you") {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := env.relay.subjects[0]; got != "Quote Request for Marco Rossi - Virtuality Fashion" {
		t.Errorf("subject = %q", got)
	}
}

func TestContactRelayUnreachable(t *testing.T) {
	env := newTestEnv(t, nil)
	env.relay.err = errors.Join(services.ErrRelayUnreachable, errors.New("dial tcp: timeout"))

	rec := env.postForm("/contact", url.Values{
		"name": {"Ada"}, "email": {"ada" + "@acme.example"}, "company": {"Acme"}, "message": {"Hi"},
	})
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), leads.MsgConnectionError) {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestJoinShowsSchedulingLink(t *testing.T) {
	env := newTestEnv(t, map[string]string{"SCHEDULING_URL": "https://cal.example/intro"})

	rec := env.postForm("/join", url.Values{"fullName": {"Lin"}, "email": {"lin" + "@studio.example"}})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "https://cal.example/intro") {
		t.Errorf("status = %d", rec.Code)
	}

	rec = env.postForm("/join", url.Values{"fullName": {"Lin"}, "email": {"lin" + "@studio.example"}, "portfolioLink": {"not a url"}})
	if !strings.Contains(rec.Body.String(), leads.MsgURLInvalid) {
		t.Error("invalid portfolio link should be reported")
	}
}

func TestEnterpriseForm(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postForm("/enterprise", url.Values{
		"company":      {"Acme"},
		"name":         {"Ada"},
		"email":        {"ada" + "@acme.example"},
		"deliverables": {"productVisuals", "techPacks"},
	})
	if rec.Code != http.StatusOK || env.relay.subjects[0] != leads.SubjectEnterprise {
		t.Errorf("status = %d, subjects %v", rec.Code, env.relay.subjects)
	}
}

func TestLeadFormsAreRateLimited(t *testing.T) {
	env := newTestEnv(t, map[string]string{"RATE_LIMIT_PER_MINUTE": "1"})

	var limited bool
	for i := 0; i < 3; i++ {
		rec := env.postForm("/join", url.Values{"fullName": {"Lin"}})
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if rec.Header().Get("Retry-After") == "" {
				t.Error("missing Retry-After")
			}
		}
	}
	if !limited {
		t.Error("expected a 429 within three posts")
	}
}

func TestRateLimitBehindProxy(t *testing.T) {
	post := func(env *testEnv, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/join", strings.NewReader("fullName=Lin"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.RemoteAddr = "10.0.0.1:443"
		return env.do(req).Code
	}

	trusted := newTestEnv(t, map[string]string{"RATE_LIMIT_PER_MINUTE": "1", "TRUST_PROXY_HEADERS": "true"})
	if code := post(trusted, "198.51.100.1"); code == http.StatusTooManyRequests {
		t.Fatal("first visitor limited")
	}
	if code := post(trusted, "198.51.100.2"); code == http.StatusTooManyRequests {
		t.Fatal("second visitor shares the first visitor's bucket")
	}
	if code := post(trusted, "198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("repeat visitor status = %d, want 429", code)
	}

	untrusted := newTestEnv(t, map[string]string{"RATE_LIMIT_PER_MINUTE": "1"})
	post(untrusted, "198.51.100.1")
	if code := post(untrusted, "198.51.100.2"); code != http.StatusTooManyRequests {
		t.Fatalf("forwarded header honoured without TRUST_PROXY_HEADERS: %d", code)
	}
}

func TestUnknownPageIs404(t *testing.T) {
	env := newTestEnv(t, nil)
	if rec := env.getPage("/no-such-page"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAdminMemberFormTags(t *testing.T) {
	env := newTestEnv(t, nil)

	form := url.Values{
		"name":          {"Jane Doe"},
		"languages":     {"English"},
		"new_languages": {"Italian"},
		"action":        {"add:languages"},
	}
	rec := env.postForm("/admin/dashboard/team/new", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("add tag status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="languages" value="Italian"`) || !strings.Contains(body, `name="languages" value="English"`) {
		t.Error("both languages should be kept as hidden inputs")
	}
	if n, _ := env.catalog.Stats(context.Background()); n.TeamMembers != 0 {
		t.Error("adding a tag must not save")
	}

	form.Set("action", "remove:languages:0")
	form.Del("new_languages")
	body = env.postForm("/admin/dashboard/team/new", form).Body.String()
	if strings.Contains(body, `value="English"`) {
		t.Error("English should have been removed")
	}
}

func TestAdminCreateMember(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.postForm("/admin/dashboard/team/new", url.Values{"name": {"Jane Doe"}, "action": {"save"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Role is required") || !strings.Contains(body, `value="Jane Doe"`) {
		t.Error("errors should show and the form should keep its values")
	}

	rec = env.postForm("/admin/dashboard/team/new", url.Values{
		"name":             {"Jane Doe"},
		"role":             {"Pattern Maker"},
		"location":         {"Berlin"},
		"bio":              {"Patterns."},
		"years_experience": {"-4"},
		"specialties":      {"Tailoring"},
		"action":           {"save"},
	})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != adminTeamPath {
		t.Fatalf("save: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	members, err := env.catalog.FetchTeamMembers(context.Background())
	if err != nil || len(members) != 1 {
		t.Fatalf("members = %v, %v", members, err)
	}
	m := members[0]
	if m.YearsExperience != 0 || m.Portrait != nil || len(m.Specialties) != 1 {
		t.Errorf("stored = %+v", m)
	}

	body := env.getPage(adminTeamPath + "?q=berlin").Body.String()
	if !strings.Contains(body, "Jane Doe") {
		t.Error("search by location should match")
	}
	body = env.getPage(adminTeamPath + "?q=paris").Body.String()
	if strings.Contains(body, "<td>Jane Doe</td>") {
		t.Error("search should filter Jane out")
	}
}

func TestAdminMemberPortraitUpload(t *testing.T) {
	env := newTestEnv(t, nil)

	body, contentType := multipartBody(t, map[string]string{
		"name": "Jane Doe", "role": "Pattern Maker", "location": "Berlin", "bio": "Patterns.",
		"portrait": "https://old.example/p.jpg", "action": "save",
	}, "portrait_file", "jane.jpg", "image/jpeg", 2048)
	req := httptest.NewRequest(http.MethodPost, "/admin/dashboard/team/new", body)
	req.Header.Set("Content-Type", contentType)

	if rec := env.do(req); rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	members, _ := env.catalog.FetchTeamMembers(context.Background())
	if got := models.Deref(members[0].Portrait); got != "https://cdn.example/portraits/jane.jpg" {
		t.Errorf("portrait = %q, want uploaded URL", got)
	}

	body, contentType = multipartBody(t, map[string]string{
		"name": "Jane Doe", "role": "Pattern Maker", "location": "Berlin", "bio": "Patterns.", "action": "save",
	}, "portrait_file", "cv.pdf", "application/pdf", 2048)
	req = httptest.NewRequest(http.MethodPost, "/admin/dashboard/team/new", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(req)
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Please upload an image file") {
		t.Errorf("status = %d", rec.Code)
	}
	if env.uploader.calls != 1 {
		t.Errorf("gateway calls = %d, want 1", env.uploader.calls)
	}
}

func TestAdminOversizeImageKeepsForm(t *testing.T) {
	env := newTestEnv(t, nil)
	size := storage.MaxImageSize + 2<<20

	body, contentType := multipartBody(t, map[string]string{
		"name": "Jane Doe", "role": "Pattern Maker", "location": "Berlin", "bio": "Patterns.", "action": "save",
	}, "portrait_file", "huge.jpg", "image/jpeg", size)
	req := httptest.NewRequest(http.MethodPost, "/admin/dashboard/team/new", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(req)
	page := rec.Body.String()
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, page)
	}
	if !strings.Contains(page, "Image size should be less than 5MB") {
		t.Error("size message missing")
	}
	if !strings.Contains(page, `value="Jane Doe"`) || !strings.Contains(page, `value="Pattern Maker"`) {
		t.Error("typed fields were not kept")
	}

	member, err := env.catalog.CreateTeamMember(context.Background(), models.TeamMemberFields{
		Name: "Jane Doe", Role: "Pattern Maker", Location: "Berlin", Bio: "Patterns.",
	})
	if err != nil {
		t.Fatal(err)
	}
	body, contentType = multipartBody(t, map[string]string{"title": "Coat"}, "image_file", "huge.jpg", "image/jpeg", size)
	req = httptest.NewRequest(http.MethodPost, adminTeamPath+"/"+member.ID.String()+"/portfolio/new", body)
	req.Header.Set("Content-Type", contentType)
	rec = env.do(req)
	page = rec.Body.String()
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(page, "Image size should be less than 5MB") || !strings.Contains(page, `value="Coat"`) {
		t.Fatalf("portfolio status = %d, body %s", rec.Code, page)
	}
	if env.uploader.calls != 0 {
		t.Errorf("gateway calls = %d, want 0", env.uploader.calls)
	}
	if n, _ := env.catalog.Stats(context.Background()); n.TeamMembers != 1 || n.PortfolioItems != 0 {
		t.Errorf("stats = %+v", n)
	}
}

func TestFormReadFailure(t *testing.T) {
	status, msg := formReadFailure(fmt.Errorf("multipart: %w", &http.MaxBytesError{Limit: maxAdminFormSize}))
	if status != http.StatusRequestEntityTooLarge || msg != "Image size should be less than 5MB" {
		t.Errorf("over cap: %d %q", status, msg)
	}
	status, msg = formReadFailure(errors.New("unexpected EOF"))
	if status != http.StatusBadRequest || msg != "The form could not be read." {
		t.Errorf("garbled: %d %q", status, msg)
	}
}

func TestAdminDeleteMemberWithConfirmation(t *testing.T) {
	env := newTestEnv(t, nil)
	member, err := env.catalog.CreateTeamMember(context.Background(), models.TeamMemberFields{
		Name: "Jane Doe", Role: "Pattern Maker", Location: "Berlin", Bio: "Patterns.",
	})
	if err != nil {
		t.Fatal(err)
	}
	path := adminTeamPath + "/" + member.ID.String() + "/delete"

	rec := env.getPage(path)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Delete Jane Doe?") {
		t.Fatalf("confirm status = %d", rec.Code)
	}
	if n, _ := env.catalog.Stats(context.Background()); n.TeamMembers != 1 {
		t.Fatal("viewing the confirmation must not delete")
	}

	rec = env.postForm(path, url.Values{})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != adminTeamPath {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if n, _ := env.catalog.Stats(context.Background()); n.TeamMembers != 0 {
		t.Error("member should be gone")
	}
}

func TestAdminPortfolioItems(t *testing.T) {
	env := newTestEnv(t, nil)
	member, err := env.catalog.CreateTeamMember(context.Background(), models.TeamMemberFields{
		Name: "Jane Doe", Role: "Pattern Maker", Location: "Berlin", Bio: "Patterns.",
	})
	if err != nil {
		t.Fatal(err)
	}
	base := adminTeamPath + "/" + member.ID.String() + "/portfolio"

	rec := env.postForm(base+"/new", url.Values{"title": {""}})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Title is required") {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = env.postForm(base+"/new", url.Values{"title": {"Wool coat"}, "category": {"Outerwear"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != base {
		t.Fatalf("create status = %d", rec.Code)
	}

	items, _ := env.catalog.ListMemberPortfolio(context.Background(), member.ID)
	if len(items) != 1 {
		t.Fatalf("items = %d", len(items))
	}
	if body := env.getPage(base).Body.String(); !strings.Contains(body, "Wool coat") {
		t.Error("member portfolio page should list the item")
	}
	if body := env.getPage("/admin/dashboard/portfolio").Body.String(); !strings.Contains(body, "Jane Doe") {
		t.Error("all-portfolio view should show the owner")
	}

	itemPath := base + "/" + items[0].ID.String()
	if rec := env.postForm(itemPath+"/delete", url.Values{}); rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := env.getPage(itemPath); rec.Code != http.StatusNotFound {
		t.Errorf("deleted item edit page status = %d", rec.Code)
	}
}

func TestAdminDashboardSurvivesStoreFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.mocks.Store.SetErr(errors.New("connection refused"))

	rec := env.getPage("/admin/dashboard")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Failed to load statistics.") {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := env.getPage("/admin"); rec.Code != http.StatusFound {
		t.Errorf("/admin status = %d", rec.Code)
	}
}
