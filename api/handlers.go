package api

import (
	"time"

	"github.com/rpupo63/virtuality-fashion-backend/admin"
	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/gate"
	"github.com/rpupo63/virtuality-fashion-backend/ratelimit"
)

const defaultSchedulingURL = "https://calendly.com/amnon-vf"

// Deps are the services the HTTP layer is built on. Uploads may be nil when
// no object storage is configured; uploads then fail with 503.
type Deps struct {
	Catalog *catalog.Catalog
	Uploads admin.Uploader
	Leads   gate.LeadSubmitter
	Limiter ratelimit.Limiter
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Deps, r *renderer, schedulingURL string, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		teamMemberHandler:    newTeamMemberHandler(deps.Catalog),
		portfolioItemHandler: newPortfolioItemHandler(deps.Catalog),
		uploadHandler:        newUploadHandler(deps.Uploads),
		statusHandler:        newStatusHandler(deps.Catalog, startupTime),
		publicPages:          newPublicPages(r, deps.Catalog, deps.Leads, schedulingURL),
		adminPages:           newAdminPages(r, deps.Catalog, deps.Uploads),
	}
}
