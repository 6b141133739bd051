package api

import (
	"net/http"
	"time"

	"github.com/rpupo63/virtuality-fashion-backend/catalog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type statusHandler struct {
	responder   Responder
	logger      zerolog.Logger
	catalog     *catalog.Catalog
	startupTime time.Time
}

func newStatusHandler(c *catalog.Catalog, startupTime time.Time) statusHandler {
	logger := log.With().Str("handlerName", "statusHandler").Logger()

	return statusHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		catalog:     c,
		startupTime: startupTime,
	}
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status         string                 `json:"status"`
	Uptime         string                 `json:"uptime"`
	FallbackPolicy catalog.FallbackPolicy `json:"fallback_policy"`
}

// healthz reports liveness; it never touches the record store
// @Summary Health check
// @Tags Status
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h statusHandler) healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, HealthResponse{
			Status:         "ok",
			Uptime:         time.Since(h.startupTime).Round(time.Second).String(),
			FallbackPolicy: h.catalog.Policy(),
		})
	}
}

// getStats returns the dashboard counts
// @Summary Dashboard statistics
// @Tags Status
// @Produce json
// @Success 200 {object} catalog.Stats
// @Failure 503 {object} ErrorResponse "Record store unavailable"
// @Router /api/stats [get]
func (h statusHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.catalog.Stats(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "records", err))
			return
		}
		h.responder.WriteJSON(w, stats)
	}
}
