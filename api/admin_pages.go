package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/virtuality-fashion-backend/admin"
	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rpupo63/virtuality-fashion-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	adminTeamPath      = "/admin/dashboard/team"
	adminPortfolioPath = "/admin/dashboard/portfolio"
)

type adminPages struct {
	logger   zerolog.Logger
	renderer *renderer
	catalog  *catalog.Catalog
	uploader admin.Uploader
}

func newAdminPages(r *renderer, c *catalog.Catalog, uploader admin.Uploader) adminPages {
	return adminPages{
		logger:   log.With().Str("handlerName", "adminPages").Logger(),
		renderer: r,
		catalog:  c,
		uploader: uploader,
	}
}

type dashboardPage struct {
	Stats   catalog.Stats
	Policy  catalog.FallbackPolicy
	Message string
}

type memberListPage struct {
	Members []models.TeamMember
	Total   int
	Query   string
	Message string
}

type memberFormPage struct {
	Form      admin.MemberForm
	MemberID  string
	TagFields []string
	formState
}

// Action is where the member form posts back to.
func (p memberFormPage) Action() string {
	if p.MemberID == "" {
		return adminTeamPath + "/new"
	}
	return adminTeamPath + "/" + p.MemberID
}

type confirmPage struct {
	Heading string
	Body    string
	Action  string
	Cancel  string
	Message string
}

type memberPortfolioPage struct {
	Member models.TeamMember
	Items  []models.PortfolioItem
}

type portfolioFormPage struct {
	Member models.TeamMember
	ItemID string
	Form   admin.PortfolioForm
	formState
}

func (p portfolioFormPage) Action() string {
	base := fmt.Sprintf("%s/%s/portfolio", adminTeamPath, p.Member.ID)
	if p.ItemID == "" {
		return base + "/new"
	}
	return base + "/" + p.ItemID
}

type allPortfolioPage struct {
	Items   []models.PortfolioItem
	Message string
}

func (p adminPages) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := dashboardPage{Policy: p.catalog.Policy()}
		stats, err := p.catalog.Stats(r.Context())
		if err != nil {
			p.logger.Error().Err(err).Msg("failed to load dashboard stats")
			page.Message = "Failed to load statistics."
		}
		page.Stats = stats
		p.renderer.render(w, http.StatusOK, "admin/dashboard", "Dashboard", page)
	}
}

// teamList shows the stored members only; the sample roster never appears here.
func (p adminPages) teamList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		page := memberListPage{Query: query}
		members, err := p.catalog.FetchTeamMembers(r.Context())
		if err != nil {
			p.logger.Error().Err(err).Msg("failed to fetch team members")
			page.Message = "Failed to load team members."
		}
		page.Total = len(members)
		page.Members = admin.FilterMembers(members, query)
		p.renderer.render(w, http.StatusOK, "admin/team", "Team members", page)
	}
}

func (p adminPages) newMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.renderMemberForm(w, http.StatusOK, memberFormPage{Form: admin.NewMemberForm()})
	}
}

func (p adminPages) editMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := p.findMember(w, r)
		if !ok {
			return
		}
		p.renderMemberForm(w, http.StatusOK, memberFormPage{Form: admin.MemberFormFrom(*member), MemberID: member.ID.String()})
	}
}

func (p adminPages) renderMemberForm(w http.ResponseWriter, status int, page memberFormPage) {
	page.TagFields = admin.TagFields
	title := "Add team member"
	if page.MemberID != "" {
		title = "Edit team member"
	}
	p.renderer.render(w, status, "admin/member_form", title, page)
}

// saveMember handles every post of the member form: tag add/remove actions
// re-render the form, save validates and writes. A posted portrait file is
// uploaded first and its URL replaces the typed one.
func (p adminPages) saveMember(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	page := memberFormPage{}
	if id != uuid.Nil {
		page.MemberID = id.String()
	}
	if err := parseAdminForm(w, r); err != nil {
		page.Form = admin.NewMemberForm()
		status, msg := formReadFailure(err)
		if status == http.StatusRequestEntityTooLarge {
			page.Errors = errs.FieldErrors{"portrait": msg}
		} else {
			page.Message = msg
		}
		p.renderMemberForm(w, status, page)
		return
	}

	form := admin.DecodeMemberForm(r.PostForm)
	save := form.Apply(admin.ParseAction(r.PostFormValue("action")))

	page.Errors = errs.FieldErrors{}
	if fh := postedFile(r, "portrait_file"); fh != nil {
		url, err := p.upload(r, storage.FolderPortraits, fh)
		if err != nil {
			page.Errors.Add("portrait", admin.UploadMessage(err))
			save = false
		} else {
			form.Portrait = url
		}
	}
	page.Form = form

	if !save {
		p.renderMemberForm(w, statusForFieldErrors(page.Errors), page)
		return
	}
	if fe := form.Validate(); len(fe) > 0 {
		page.Errors = fe
		p.renderMemberForm(w, http.StatusUnprocessableEntity, page)
		return
	}

	var err error
	if id == uuid.Nil {
		var member *models.TeamMember
		member, err = p.catalog.CreateTeamMember(r.Context(), form.ToFields())
		if err == nil {
			p.logger.Info().Str("teamMemberID", member.ID.String()).Msg("team member created")
		}
	} else {
		_, err = p.catalog.UpdateTeamMember(r.Context(), id, form.ToFields())
	}
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to save team member")
		page.Message = "Failed to save team member: " + err.Error()
		p.renderMemberForm(w, http.StatusInternalServerError, page)
		return
	}
	seeOther(w, r, adminTeamPath)
}

func (p adminPages) createMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.saveMember(w, r, uuid.Nil)
	}
}

func (p adminPages) updateMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := p.memberID(w, r)
		if !ok {
			return
		}
		p.saveMember(w, r, id)
	}
}

func (p adminPages) confirmDeleteMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := p.findMember(w, r)
		if !ok {
			return
		}
		p.renderer.render(w, http.StatusOK, "admin/confirm", "Delete team member", p.deleteMemberPage(*member, ""))
	}
}

func (p adminPages) deleteMemberPage(member models.TeamMember, message string) confirmPage {
	return confirmPage{
		Heading: "Delete " + member.Name + "?",
		Body:    "This also deletes their portfolio items. This cannot be undone.",
		Action:  fmt.Sprintf("%s/%s/delete", adminTeamPath, member.ID),
		Cancel:  adminTeamPath,
		Message: message,
	}
}

func (p adminPages) deleteMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := p.findMember(w, r)
		if !ok {
			return
		}
		if err := p.catalog.DeleteTeamMember(r.Context(), member.ID); err != nil {
			p.logger.Error().Err(err).Msg("failed to delete team member")
			p.renderer.render(w, http.StatusInternalServerError, "admin/confirm", "Delete team member",
				p.deleteMemberPage(*member, "Failed to delete team member: "+err.Error()))
			return
		}
		p.logger.Info().Str("teamMemberID", member.ID.String()).Msg("team member deleted")
		seeOther(w, r, adminTeamPath)
	}
}

func (p adminPages) memberPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := p.findMember(w, r)
		if !ok {
			return
		}
		items, err := p.catalog.ListMemberPortfolio(r.Context(), member.ID)
		if err != nil {
			p.serverError(w, "Failed to load portfolio items.", err)
			return
		}
		p.renderer.render(w, http.StatusOK, "admin/member_portfolio", member.Name+" portfolio", memberPortfolioPage{Member: *member, Items: items})
	}
}

func (p adminPages) newPortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := p.findMember(w, r)
		if !ok {
			return
		}
		p.renderer.render(w, http.StatusOK, "admin/portfolio_form", "Add portfolio item", portfolioFormPage{Member: *member})
	}
}

func (p adminPages) editPortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, item, ok := p.findPortfolioItem(w, r)
		if !ok {
			return
		}
		p.renderer.render(w, http.StatusOK, "admin/portfolio_form", "Edit portfolio item", portfolioFormPage{
			Member: *member,
			ItemID: item.ID.String(),
			Form:   admin.PortfolioFormFrom(*item),
		})
	}
}

// savePortfolioItem creates (item == nil) or updates a portfolio item. An
// uploaded image replaces the typed URL.
func (p adminPages) savePortfolioItem(w http.ResponseWriter, r *http.Request, member *models.TeamMember, item *models.PortfolioItem) {
	page := portfolioFormPage{Member: *member}
	title := "Add portfolio item"
	if item != nil {
		page.ItemID = item.ID.String()
		title = "Edit portfolio item"
	}
	if err := parseAdminForm(w, r); err != nil {
		status, msg := formReadFailure(err)
		if status == http.StatusRequestEntityTooLarge {
			page.Errors = errs.FieldErrors{"image_url": msg}
		} else {
			page.Message = msg
		}
		p.renderer.render(w, status, "admin/portfolio_form", title, page)
		return
	}

	page.Form = admin.DecodePortfolioForm(r.PostForm)
	page.Errors = page.Form.Validate()
	if fh := postedFile(r, "image_file"); fh != nil {
		url, err := p.upload(r, storage.FolderPortfolio, fh)
		if err != nil {
			page.Errors.Add("image_url", admin.UploadMessage(err))
		} else {
			page.Form.ImageURL = url
		}
	}
	if len(page.Errors) > 0 {
		p.renderer.render(w, http.StatusUnprocessableEntity, "admin/portfolio_form", title, page)
		return
	}

	var err error
	if item == nil {
		_, err = p.catalog.CreatePortfolioItem(r.Context(), member.ID, page.Form.ToFields())
	} else {
		_, err = p.catalog.UpdatePortfolioItem(r.Context(), item.ID, page.Form.ToFields())
	}
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to save portfolio item")
		page.Message = "Failed to save portfolio item: " + err.Error()
		p.renderer.render(w, http.StatusInternalServerError, "admin/portfolio_form", title, page)
		return
	}
	seeOther(w, r, fmt.Sprintf("%s/%s/portfolio", adminTeamPath, member.ID))
}

func (p adminPages) createPortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := p.findMember(w, r)
		if !ok {
			return
		}
		p.savePortfolioItem(w, r, member, nil)
	}
}

func (p adminPages) updatePortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, item, ok := p.findPortfolioItem(w, r)
		if !ok {
			return
		}
		p.savePortfolioItem(w, r, member, item)
	}
}

func (p adminPages) deletePortfolioItemPage(member models.TeamMember, item models.PortfolioItem, message string) confirmPage {
	back := fmt.Sprintf("%s/%s/portfolio", adminTeamPath, member.ID)
	return confirmPage{
		Heading: "Delete \"" + item.Title + "\"?",
		Body:    "This portfolio item will be removed from " + member.Name + "'s profile.",
		Action:  fmt.Sprintf("%s/%s/delete", back, item.ID),
		Cancel:  back,
		Message: message,
	}
}

func (p adminPages) confirmDeletePortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, item, ok := p.findPortfolioItem(w, r)
		if !ok {
			return
		}
		p.renderer.render(w, http.StatusOK, "admin/confirm", "Delete portfolio item", p.deletePortfolioItemPage(*member, *item, ""))
	}
}

func (p adminPages) deletePortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, item, ok := p.findPortfolioItem(w, r)
		if !ok {
			return
		}
		if err := p.catalog.DeletePortfolioItem(r.Context(), item.ID); err != nil {
			p.logger.Error().Err(err).Msg("failed to delete portfolio item")
			p.renderer.render(w, http.StatusInternalServerError, "admin/confirm", "Delete portfolio item",
				p.deletePortfolioItemPage(*member, *item, "Failed to delete portfolio item: "+err.Error()))
			return
		}
		seeOther(w, r, fmt.Sprintf("%s/%s/portfolio", adminTeamPath, member.ID))
	}
}

func (p adminPages) allPortfolio() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var page allPortfolioPage
		items, err := p.catalog.ListPortfolioItems(r.Context())
		if err != nil {
			p.logger.Error().Err(err).Msg("failed to list portfolio items")
			page.Message = "Failed to load portfolio items."
		}
		page.Items = items
		p.renderer.render(w, http.StatusOK, "admin/portfolio", "All portfolio items", page)
	}
}

func (p adminPages) upload(r *http.Request, folder storage.Folder, fh *multipart.FileHeader) (string, error) {
	if p.uploader == nil {
		return "", fmt.Errorf("%w: object storage is not configured", storage.ErrUploadFailed)
	}
	url, err := admin.UploadImage(r.Context(), p.uploader, folder, fh)
	if err != nil {
		p.logger.Warn().Err(err).Str("filename", fh.Filename).Msg("image upload failed")
	}
	return url, err
}

func (p adminPages) memberID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "teamMemberID"))
	if err != nil {
		p.notFound(w)
		return uuid.Nil, false
	}
	return id, true
}

func (p adminPages) findMember(w http.ResponseWriter, r *http.Request) (*models.TeamMember, bool) {
	id, ok := p.memberID(w, r)
	if !ok {
		return nil, false
	}
	member, err := p.catalog.FindTeamMember(r.Context(), id)
	if err != nil {
		if errs.IsNotFound(err) {
			p.notFound(w)
		} else {
			p.serverError(w, "Failed to load team member.", err)
		}
		return nil, false
	}
	return member, true
}

func (p adminPages) findPortfolioItem(w http.ResponseWriter, r *http.Request) (*models.TeamMember, *models.PortfolioItem, bool) {
	member, ok := p.findMember(w, r)
	if !ok {
		return nil, nil, false
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "portfolioItemID"))
	if err != nil {
		p.notFound(w)
		return nil, nil, false
	}
	item, err := p.catalog.GetPortfolioItem(r.Context(), itemID)
	switch {
	case errs.IsNotFound(err), err == nil && item.TeamMemberID != member.ID:
		p.notFound(w)
		return nil, nil, false
	case err != nil:
		p.serverError(w, "Failed to load portfolio item.", err)
		return nil, nil, false
	}
	return member, item, true
}

func (p adminPages) notFound(w http.ResponseWriter) {
	p.renderer.render(w, http.StatusNotFound, "admin/error", "Not found", errorPage{
		Heading: "Not found",
		Message: "That record does not exist.",
		Back:    adminTeamPath,
	})
}

func (p adminPages) serverError(w http.ResponseWriter, message string, err error) {
	p.logger.Error().Err(err).Msg(message)
	p.renderer.render(w, http.StatusInternalServerError, "admin/error", "Error", errorPage{
		Heading: "Something went wrong",
		Message: message,
		Back:    "/admin/dashboard",
	})
}

// Admin posts may carry an image well past the 5MB limit; the whole form is
// still parsed so the size check reports on the file and the typed fields
// survive. File parts beyond adminFormMemory spill to temporary files.
const (
	maxAdminFormSize = 64 << 20
	adminFormMemory  = 8 << 20
)

// parseAdminForm accepts both urlencoded and multipart posts.
func parseAdminForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxAdminFormSize)
	if err := r.ParseMultipartForm(adminFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// formReadFailure maps a parse error to a status and message. Only a file
// can push a post over maxAdminFormSize, so that case gets the image size
// message.
func formReadFailure(err error) (int, string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge, admin.UploadMessage(storage.ErrTooLarge)
	}
	return http.StatusBadRequest, "The form could not be read."
}

// postedFile returns the named file part when one was actually chosen.
func postedFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return files[0]
}

func statusForFieldErrors(fe errs.FieldErrors) int {
	if len(fe) > 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
