package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/gate"
	"github.com/rpupo63/virtuality-fashion-backend/leads"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const unlockAnchor = "/team#unlock"

type publicPages struct {
	logger        zerolog.Logger
	renderer      *renderer
	catalog       *catalog.Catalog
	leads         gate.LeadSubmitter
	schedulingURL string
}

func newPublicPages(r *renderer, c *catalog.Catalog, submitter gate.LeadSubmitter, schedulingURL string) publicPages {
	return publicPages{
		logger:        log.With().Str("handlerName", "publicPages").Logger(),
		renderer:      r,
		catalog:       c,
		leads:         submitter,
		schedulingURL: schedulingURL,
	}
}

type errorPage struct {
	Heading string
	Message string
	Back    string
}

type teamPage struct {
	Members      []models.TeamMember
	Locked       bool
	Form         leads.UnlockForm
	ProjectTypes []leads.Option
	Timelines    []leads.Option
	formState
}

type memberPage struct {
	Member models.TeamMember
}

type projectPage struct {
	Member models.TeamMember
	Item   models.PortfolioItem
}

type contactPage struct {
	Form leads.ContactForm
	formState
}

type enterprisePage struct {
	Form         leads.EnterpriseForm
	ProjectTypes []leads.Option
	Categories   []leads.Option
	Deliverables []leads.Option
	Timelines    []leads.Option
	formState
}

type joinPage struct {
	Form          leads.JoinTeamForm
	Specialties   []leads.Option
	SchedulingURL string
	formState
}

func (p publicPages) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.renderer.render(w, http.StatusOK, "public/home", "Virtuality Fashion", nil)
	}
}

func (p publicPages) notFound(w http.ResponseWriter) {
	p.renderer.render(w, http.StatusNotFound, "public/error", "Not found", errorPage{
		Heading: "Page not found",
		Message: "The page you are looking for does not exist.",
		Back:    "/team",
	})
}

func (p publicPages) accessGate(r *http.Request) *gate.Gate {
	if g, ok := ctxGetGate(r.Context()); ok {
		return g
	}
	return gate.New(gate.NewMemoryStorage(), p.leads)
}

// team renders the roster. While the gate is locked the grid is still
// rendered but obscured and inert, under the unlock form.
func (p publicPages) team() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := p.accessGate(r)
		var page teamPage
		if data, ok := g.ClientData(); ok {
			page.Form = data
		}
		p.renderTeam(w, r, http.StatusOK, g, page)
	}
}

func (p publicPages) renderTeam(w http.ResponseWriter, r *http.Request, status int, g *gate.Gate, page teamPage) {
	listing, err := p.catalog.ListTeamMembers(r.Context())
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to list team members")
		p.renderer.render(w, http.StatusServiceUnavailable, "public/error", "Our team", errorPage{
			Heading: "Team unavailable",
			Message: "We couldn't load our team right now. Please try again later.",
			Back:    "/",
		})
		return
	}
	page.Members = listing.Members
	page.Locked = g.State() != gate.Unlocked
	page.ProjectTypes = leads.UnlockProjectTypes
	page.Timelines = leads.Timelines
	p.renderer.render(w, status, "public/team", "Our team", page)
}

// unlockTeam handles the unlock form posted from the roster page.
func (p publicPages) unlockTeam() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.renderer.render(w, http.StatusBadRequest, "public/error", "Bad request", errorPage{
				Heading: "Bad request",
				Message: "The form could not be read.",
				Back:    unlockAnchor,
			})
			return
		}

		g := p.accessGate(r)
		form := leads.DecodeUnlock(r.PostForm)
		err := g.Unlock(r.Context(), form)
		if err == nil {
			seeOther(w, r, "/team")
			return
		}

		page := teamPage{Form: form, formState: formStateFor(err)}
		p.renderTeam(w, r, statusFor(err), g, page)
	}
}

// member renders a member detail page; locked visitors go to the unlock form.
func (p publicPages) member() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := p.unlockedMember(w, r)
		if !ok {
			return
		}
		p.renderer.render(w, http.StatusOK, "public/member", member.Name, memberPage{Member: *member})
	}
}

func (p publicPages) project() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		member, ok := p.unlockedMember(w, r)
		if !ok {
			return
		}
		projectID := chi.URLParam(r, "projectID")
		for _, item := range member.PortfolioItems {
			if item.ID.String() == projectID {
				p.renderer.render(w, http.StatusOK, "public/project", item.Title, projectPage{Member: *member, Item: item})
				return
			}
		}
		p.notFound(w)
	}
}

func (p publicPages) unlockedMember(w http.ResponseWriter, r *http.Request) (*models.TeamMember, bool) {
	if p.accessGate(r).State() != gate.Unlocked {
		http.Redirect(w, r, unlockAnchor, http.StatusFound)
		return nil, false
	}
	member, _, err := p.catalog.GetTeamMember(r.Context(), chi.URLParam(r, "teamMemberID"))
	switch {
	case errs.IsNotFound(err):
		p.notFound(w)
		return nil, false
	case err != nil:
		p.logger.Error().Err(err).Msg("failed to load team member")
		p.renderer.render(w, http.StatusServiceUnavailable, "public/error", "Unavailable", errorPage{
			Heading: "Profile unavailable",
			Message: "We couldn't load this profile right now. Please try again later.",
			Back:    "/team",
		})
		return nil, false
	}
	return member, true
}

func (p publicPages) contact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := leads.NewContactForm(r.URL.Query().Get("designer"))
		p.renderer.render(w, http.StatusOK, "public/contact", "Contact", contactPage{Form: form})
	}
}

func (p publicPages) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.renderer.render(w, http.StatusBadRequest, "public/contact", "Contact", contactPage{
				formState: formState{Message: leads.MsgSomethingWrong},
			})
			return
		}
		form := leads.DecodeContact(r.PostForm)
		err := p.leads.Submit(r.Context(), form)
		if err != nil {
			p.renderer.render(w, statusFor(err), "public/contact", "Contact", contactPage{Form: form, formState: formStateFor(err)})
			return
		}
		p.renderer.render(w, http.StatusOK, "public/contact", "Contact", contactPage{formState: formState{Sent: true}})
	}
}

func (p publicPages) enterprisePage(form leads.EnterpriseForm, state formState) enterprisePage {
	return enterprisePage{
		Form:         form,
		ProjectTypes: leads.EnterpriseProjectTypes,
		Categories:   leads.Categories,
		Deliverables: leads.Deliverables,
		Timelines:    leads.Timelines,
		formState:    state,
	}
}

func (p publicPages) enterprise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.renderer.render(w, http.StatusOK, "public/enterprise", "Enterprise", p.enterprisePage(leads.EnterpriseForm{}, formState{}))
	}
}

func (p publicPages) submitEnterprise() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.renderer.render(w, http.StatusBadRequest, "public/enterprise", "Enterprise",
				p.enterprisePage(leads.EnterpriseForm{}, formState{Message: leads.MsgSomethingWrong}))
			return
		}
		form := leads.DecodeEnterprise(r.PostForm)
		if err := p.leads.Submit(r.Context(), form); err != nil {
			p.renderer.render(w, statusFor(err), "public/enterprise", "Enterprise", p.enterprisePage(form, formStateFor(err)))
			return
		}
		p.renderer.render(w, http.StatusOK, "public/enterprise", "Enterprise", p.enterprisePage(leads.EnterpriseForm{}, formState{Sent: true}))
	}
}

func (p publicPages) joinPage(form leads.JoinTeamForm, state formState) joinPage {
	return joinPage{
		Form:          form,
		Specialties:   leads.Specialties,
		SchedulingURL: p.schedulingURL,
		formState:     state,
	}
}

func (p publicPages) join() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p.renderer.render(w, http.StatusOK, "public/join", "Join our team", p.joinPage(leads.JoinTeamForm{}, formState{}))
	}
}

func (p publicPages) submitJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			p.renderer.render(w, http.StatusBadRequest, "public/join", "Join our team",
				p.joinPage(leads.JoinTeamForm{}, formState{Message: leads.MsgSomethingWrong}))
			return
		}
		form := leads.DecodeJoinTeam(r.PostForm)
		if err := p.leads.Submit(r.Context(), form); err != nil {
			p.renderer.render(w, statusFor(err), "public/join", "Join our team", p.joinPage(form, formStateFor(err)))
			return
		}
		p.renderer.render(w, http.StatusOK, "public/join", "Join our team", p.joinPage(leads.JoinTeamForm{}, formState{Sent: true}))
	}
}

// formStateFor turns a submit error into inline field errors or a form-level message.
func formStateFor(err error) formState {
	if fields, ok := errs.AsValidation(err); ok {
		return formState{Errors: fields}
	}
	return formState{Message: leads.UserMessage(err)}
}

func statusFor(err error) int {
	var rerr *leads.RelayError
	switch {
	case errs.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &rerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
