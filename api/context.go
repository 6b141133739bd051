package api

import (
	"context"
	"net/http"

	"github.com/rpupo63/virtuality-fashion-backend/gate"
	"github.com/rs/zerolog/log"
)

type keyType string

const (
	gateKey keyType = "gate"
)

// ctxWithGate adds the visitor's access gate to the context
func ctxWithGate(ctx context.Context, g *gate.Gate) context.Context {
	return context.WithValue(ctx, gateKey, g)
}

// ctxGetGate retrieves the access gate from the context
func ctxGetGate(ctx context.Context) (*gate.Gate, bool) {
	g, ok := ctx.Value(gateKey).(*gate.Gate)
	return g, ok
}

// withAccessGate restores the visitor's gate from their cookies for every
// public page request.
func withAccessGate(submitter gate.LeadSubmitter, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storage := gate.NewCookieStorage(w, r, secureCookies)
			g := gate.New(storage, submitter, gate.WithTransitionHook(func(from, to gate.AccessState) {
				log.Debug().Str("from", from.String()).Str("to", to.String()).Str("remote_addr", r.RemoteAddr).Msg("access gate transition")
			}))
			next.ServeHTTP(w, r.WithContext(ctxWithGate(r.Context(), g)))
		})
	}
}
