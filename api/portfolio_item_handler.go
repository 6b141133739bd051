package api

import (
	"net/http"

	"github.com/rpupo63/virtuality-fashion-backend/admin"
	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type portfolioItemHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *catalog.Catalog
}

func newPortfolioItemHandler(c *catalog.Catalog) portfolioItemHandler {
	logger := log.With().Str("handlerName", "portfolioItemHandler").Logger()

	return portfolioItemHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   c,
	}
}

// getAllPortfolioItems lists every portfolio item with its owning member
// @Summary Get all portfolio items
// @Tags PortfolioItems
// @Produce json
// @Success 200 {object} PortfolioItemCollection "Portfolio items"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /api/portfolio-items [get]
func (h portfolioItemHandler) getAllPortfolioItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.catalog.ListPortfolioItems(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "portfolio items", err))
			return
		}

		h.responder.WriteJSON(w, PortfolioItemCollection{PortfolioItems: items, Total: len(items)})
	}
}

// getMemberPortfolioItems lists one member's items, newest first
// @Summary Get a member's portfolio items
// @Tags PortfolioItems
// @Produce json
// @Param teamMemberID path string true "Team member ID" format(uuid)
// @Success 200 {object} PortfolioItemCollection "Portfolio items"
// @Router /api/team-member/{teamMemberID}/portfolio-items [get]
func (h portfolioItemHandler) getMemberPortfolioItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID, ok := parseUUIDParam(h.responder, w, r, "teamMemberID")
		if !ok {
			return
		}

		items, err := h.catalog.ListMemberPortfolio(r.Context(), memberID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "portfolio items", err))
			return
		}

		h.responder.WriteJSON(w, PortfolioItemCollection{PortfolioItems: items, Total: len(items)})
	}
}

// getPortfolioItem retrieves one item
// @Summary Get portfolio item
// @Tags PortfolioItems
// @Produce json
// @Param portfolioItemID path string true "Portfolio item ID" format(uuid)
// @Success 200 {object} models.PortfolioItem "Portfolio item"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /api/portfolio-item/{portfolioItemID} [get]
func (h portfolioItemHandler) getPortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUUIDParam(h.responder, w, r, "portfolioItemID")
		if !ok {
			return
		}

		item, err := h.catalog.GetPortfolioItem(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "portfolio item", err))
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// createPortfolioItem adds an item to a member's portfolio
// @Summary Create portfolio item
// @Tags PortfolioItems
// @Accept json
// @Produce json
// @Param teamMemberID path string true "Team member ID" format(uuid)
// @Param portfolioItem body models.PortfolioItemFields true "Portfolio item data"
// @Success 201 {object} models.PortfolioItem "Created portfolio item"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid data or unknown member"
// @Router /api/team-member/{teamMemberID}/portfolio-item [post]
func (h portfolioItemHandler) createPortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memberID, ok := parseUUIDParam(h.responder, w, r, "teamMemberID")
		if !ok {
			return
		}

		fields, ok := h.decodeFields(w, r)
		if !ok {
			return
		}

		item, err := h.catalog.CreatePortfolioItem(r.Context(), memberID, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "portfolio item", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, item)
	}
}

// updatePortfolioItem overwrites an item's editable fields
// @Summary Update portfolio item
// @Tags PortfolioItems
// @Accept json
// @Produce json
// @Param portfolioItemID path string true "Portfolio item ID" format(uuid)
// @Param portfolioItem body models.PortfolioItemFields true "Portfolio item data"
// @Success 200 {object} models.PortfolioItem "Updated portfolio item"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /api/portfolio-item/{portfolioItemID} [put]
func (h portfolioItemHandler) updatePortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUUIDParam(h.responder, w, r, "portfolioItemID")
		if !ok {
			return
		}

		fields, ok := h.decodeFields(w, r)
		if !ok {
			return
		}

		item, err := h.catalog.UpdatePortfolioItem(r.Context(), id, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "portfolio item", err))
			return
		}

		h.responder.WriteJSON(w, item)
	}
}

// deletePortfolioItem removes an item
// @Summary Delete portfolio item
// @Tags PortfolioItems
// @Produce json
// @Param portfolioItemID path string true "Portfolio item ID" format(uuid)
// @Success 200 {object} StatusResponse "Deleted"
// @Router /api/portfolio-item/{portfolioItemID} [delete]
func (h portfolioItemHandler) deletePortfolioItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUUIDParam(h.responder, w, r, "portfolioItemID")
		if !ok {
			return
		}

		if err := h.catalog.DeletePortfolioItem(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "portfolio item", err))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "Portfolio item deleted"})
	}
}

func (h portfolioItemHandler) decodeFields(w http.ResponseWriter, r *http.Request) (models.PortfolioItemFields, bool) {
	var fields models.PortfolioItemFields
	if !decodeJSONBody(h.responder, h.logger, w, r, "portfolio item", &fields) {
		return fields, false
	}
	if err := admin.ValidatePortfolioItem(fields).Err(); err != nil {
		h.responder.WriteError(w, err)
		return fields, false
	}
	return fields, true
}
