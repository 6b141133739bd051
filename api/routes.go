package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/virtuality-fashion-backend/gate"
	"github.com/rpupo63/virtuality-fashion-backend/ratelimit"
)

type routeSettings struct {
	auth          adminAuth
	origins       []string
	limiter       ratelimit.Limiter
	perMinute     int
	secureCookies bool
	leads         gate.LeadSubmitter
}

func (s routeSettings) limit(scope string) func(http.Handler) http.Handler {
	return rateLimit(s.limiter, scope, s.perMinute, time.Minute)
}

// setupAPIRoutes sets up the JSON API. Reads are public; writes and uploads
// go through the admin password when one is configured.
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, s routeSettings) {
	r.Get("/healthz", handlers.statusHandler.healthz())

	r.Route("/api", func(r chi.Router) {
		r.Use(CORSCheckMiddleware(s.origins))
		r.Use(corsMiddleware(s.origins))

		r.Get("/team-members", handlers.teamMemberHandler.getAllTeamMembers())
		r.Get("/team-member/{teamMemberID}", handlers.teamMemberHandler.getTeamMember())
		r.Get("/team-member/{teamMemberID}/portfolio-items", handlers.portfolioItemHandler.getMemberPortfolioItems())
		r.Get("/portfolio-items", handlers.portfolioItemHandler.getAllPortfolioItems())
		r.Get("/portfolio-item/{portfolioItemID}", handlers.portfolioItemHandler.getPortfolioItem())

		r.Group(func(r chi.Router) {
			r.Use(s.auth.authenticate)

			r.Get("/stats", handlers.statusHandler.getStats())

			r.Post("/team-member", handlers.teamMemberHandler.createTeamMember())
			r.Put("/team-member/{teamMemberID}", handlers.teamMemberHandler.updateTeamMember())
			r.Delete("/team-member/{teamMemberID}", handlers.teamMemberHandler.deleteTeamMember())

			r.Post("/team-member/{teamMemberID}/portfolio-item", handlers.portfolioItemHandler.createPortfolioItem())
			r.Put("/portfolio-item/{portfolioItemID}", handlers.portfolioItemHandler.updatePortfolioItem())
			r.Delete("/portfolio-item/{portfolioItemID}", handlers.portfolioItemHandler.deletePortfolioItem())

			r.With(s.limit("upload")).Post("/upload", handlers.uploadHandler.uploadImage())
		})
	})
}

// setupPublicRoutes sets up the marketing pages, the gated roster and the
// lead forms. Form posts are rate limited per client.
func setupPublicRoutes(r chi.Router, handlers *routeHandlers, s routeSettings) {
	pages := handlers.publicPages

	r.Get("/", pages.home())
	r.Get("/contact", pages.contact())
	r.With(s.limit("contact")).Post("/contact", pages.submitContact())
	r.Get("/enterprise", pages.enterprise())
	r.With(s.limit("enterprise")).Post("/enterprise", pages.submitEnterprise())
	r.Get("/join", pages.join())
	r.With(s.limit("join")).Post("/join", pages.submitJoin())

	r.Route("/team", func(r chi.Router) {
		r.Use(withAccessGate(s.leads, s.secureCookies))

		r.Get("/", pages.team())
		r.With(s.limit("unlock")).Post("/unlock", pages.unlockTeam())
		r.Get("/{teamMemberID}", pages.member())
		r.Get("/{teamMemberID}/project/{projectID}", pages.project())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pages.notFound(w)
	})
}

func setupAdminRoutes(r chi.Router, handlers *routeHandlers, s routeSettings) {
	pages := handlers.adminPages

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.auth.authenticate)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/admin/dashboard", http.StatusFound)
		})
		r.Get("/dashboard", pages.dashboard())
		r.Get("/dashboard/portfolio", pages.allPortfolio())

		r.Route("/dashboard/team", func(r chi.Router) {
			r.Get("/", pages.teamList())
			r.Get("/new", pages.newMember())
			r.Post("/new", pages.createMember())

			r.Route("/{teamMemberID}", func(r chi.Router) {
				r.Get("/", pages.editMember())
				r.Post("/", pages.updateMember())
				r.Get("/delete", pages.confirmDeleteMember())
				r.Post("/delete", pages.deleteMember())

				r.Get("/portfolio", pages.memberPortfolio())
				r.Get("/portfolio/new", pages.newPortfolioItem())
				r.Post("/portfolio/new", pages.createPortfolioItem())
				r.Get("/portfolio/{portfolioItemID}", pages.editPortfolioItem())
				r.Post("/portfolio/{portfolioItemID}", pages.updatePortfolioItem())
				r.Get("/portfolio/{portfolioItemID}/delete", pages.confirmDeletePortfolioItem())
				r.Post("/portfolio/{portfolioItemID}/delete", pages.deletePortfolioItem())
			})
		})
	})
}
