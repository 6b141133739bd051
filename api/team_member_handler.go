package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/virtuality-fashion-backend/admin"
	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rpupo63/virtuality-fashion-backend/errs"
	"github.com/rpupo63/virtuality-fashion-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const maxJSONBodySize = 1 << 20

type teamMemberHandler struct {
	responder Responder
	logger    zerolog.Logger
	catalog   *catalog.Catalog
}

func newTeamMemberHandler(c *catalog.Catalog) teamMemberHandler {
	logger := log.With().Str("handlerName", "teamMemberHandler").Logger()

	return teamMemberHandler{
		responder: NewResponder(logger),
		logger:    logger,
		catalog:   c,
	}
}

// getAllTeamMembers lists the roster, newest first
// @Summary Get all team members
// @Description Lists team members with their portfolio items. When the store is empty or unreachable the sample roster may be served, see "source".
// @Tags TeamMembers
// @Produce json
// @Success 200 {object} TeamMemberCollection "Team members"
// @Failure 503 {object} ErrorResponse "Record store unavailable"
// @Router /api/team-members [get]
func (h teamMemberHandler) getAllTeamMembers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing, err := h.catalog.ListTeamMembers(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, TeamMemberCollection{
			TeamMembers: listing.Members,
			Total:       len(listing.Members),
			Source:      listing.Source,
		})
	}
}

// getTeamMember retrieves one member, falling back to the sample roster
// @Summary Get team member
// @Tags TeamMembers
// @Produce json
// @Param teamMemberID path string true "Team member ID"
// @Success 200 {object} models.TeamMember "Team member"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /api/team-member/{teamMemberID} [get]
func (h teamMemberHandler) getTeamMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "teamMemberID")
		if id == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing teamMemberID"))
			return
		}

		member, _, err := h.catalog.GetTeamMember(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find team member", "team member", err))
			return
		}

		h.responder.WriteJSON(w, member)
	}
}

// createTeamMember creates a member; id and timestamps are assigned by the server
// @Summary Create team member
// @Tags TeamMembers
// @Accept json
// @Produce json
// @Param teamMember body models.TeamMemberFields true "Team member data"
// @Success 201 {object} models.TeamMember "Created team member"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid team member data"
// @Router /api/team-member [post]
func (h teamMemberHandler) createTeamMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, ok := h.decodeFields(w, r)
		if !ok {
			return
		}

		member, err := h.catalog.CreateTeamMember(r.Context(), fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "team member", err))
			return
		}

		h.logger.Info().Str("teamMemberID", member.ID.String()).Msg("team member created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, member)
	}
}

// updateTeamMember overwrites every editable field of a member
// @Summary Update team member
// @Tags TeamMembers
// @Accept json
// @Produce json
// @Param teamMemberID path string true "Team member ID" format(uuid)
// @Param teamMember body models.TeamMemberFields true "Team member data"
// @Success 200 {object} models.TeamMember "Updated team member"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid team member data"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /api/team-member/{teamMemberID} [put]
func (h teamMemberHandler) updateTeamMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.parseID(w, r)
		if !ok {
			return
		}

		fields, ok := h.decodeFields(w, r)
		if !ok {
			return
		}

		member, err := h.catalog.UpdateTeamMember(r.Context(), id, fields)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "team member", err))
			return
		}

		h.responder.WriteJSON(w, member)
	}
}

// deleteTeamMember removes a member and, through the foreign key, its portfolio
// @Summary Delete team member
// @Tags TeamMembers
// @Produce json
// @Param teamMemberID path string true "Team member ID" format(uuid)
// @Success 200 {object} StatusResponse "Deleted"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /api/team-member/{teamMemberID} [delete]
func (h teamMemberHandler) deleteTeamMember() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.parseID(w, r)
		if !ok {
			return
		}

		if err := h.catalog.DeleteTeamMember(r.Context(), id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "team member", err))
			return
		}

		h.logger.Info().Str("teamMemberID", id.String()).Msg("team member deleted")
		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "Team member deleted"})
	}
}

func (h teamMemberHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	return parseUUIDParam(h.responder, w, r, "teamMemberID")
}

func (h teamMemberHandler) decodeFields(w http.ResponseWriter, r *http.Request) (models.TeamMemberFields, bool) {
	var fields models.TeamMemberFields
	if !decodeJSONBody(h.responder, h.logger, w, r, "team member", &fields) {
		return fields, false
	}
	if err := admin.ValidateMember(fields).Err(); err != nil {
		h.responder.WriteError(w, err)
		return fields, false
	}
	return fields, true
}

func parseUUIDParam(responder Responder, w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		responder.WriteError(w, errs.NewBadRequestError("missing "+param))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		responder.WriteError(w, errs.NewBadRequestError("invalid "+param))
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSONBody decodes a bounded JSON body into dst, writing a 400 on failure.
func decodeJSONBody(responder Responder, logger zerolog.Logger, w http.ResponseWriter, r *http.Request, payloadType string, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBodySize))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read request body")
		responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		logger.Warn().Err(err).Int("bodySize", len(body)).Str("bodyPrefix", bodyPrefix(body)).Msgf("Failed to decode %s request body", payloadType)
		responder.WriteError(w, errs.NewMalformedPayloadError(payloadType, err))
		return false
	}
	return true
}

// maxLoggedBody caps how much of a rejected body reaches the logs.
const maxLoggedBody = 64

func bodyPrefix(body []byte) string {
	if len(body) > maxLoggedBody {
		body = body[:maxLoggedBody]
	}
	return strings.ToValidUTF8(string(body), "")
}
