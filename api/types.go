package api

import (
	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	teamMemberHandler    teamMemberHandler
	portfolioItemHandler portfolioItemHandler
	uploadHandler        uploadHandler
	statusHandler        statusHandler
	publicPages          publicPages
	adminPages           adminPages
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string           `json:"error" example:"Internal Server Error"`
	Status  string           `json:"status" example:"error"`
	Field   string           `json:"field,omitempty" example:"title"`
	Fields  errs.FieldErrors `json:"fields,omitempty"`
	Details string           `json:"details,omitempty" example:"Additional error details"`
	Cause   string           `json:"cause,omitempty" example:"Underlying error cause"`
}

// TeamMemberCollection is the team member listing.
type TeamMemberCollection struct {
	TeamMembers []models.TeamMember `json:"team_members"`
	Total       int                 `json:"total"`
	Source      catalog.Source      `json:"source"`
}

type PortfolioItemCollection struct {
	PortfolioItems []models.PortfolioItem `json:"portfolio_items"`
	Total          int                    `json:"total"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
