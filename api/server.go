package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/virtuality-fashion-backend/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, deps Deps) (Server, error) {
	// Ensure correct port is set
	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router, err := newRouter(deps, withConfig(c), withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  config.GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),  // Timeout for reading the entire request
		WriteTimeout: config.GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180), // Timeout for writing the response
		IdleTimeout:  config.GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Deps, opts ...func(*router)) (*chi.Mux, error) {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	renderer, err := newRenderer(log.With().Str("component", "renderer").Logger())
	if err != nil {
		return nil, err
	}

	chiRouter := chi.NewRouter()
	// Behind a proxy every request arrives from the proxy's address; RealIP
	// restores the visitor address that rate limiting keys on. Only enable
	// it when the proxy overwrites these headers.
	if config.GetBool(router.config, "TRUST_PROXY_HEADERS", false) {
		chiRouter.Use(middleware.RealIP)
	}
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	schedulingURL := config.GetString(router.config, "SCHEDULING_URL", defaultSchedulingURL)
	handlers := initializeHandlers(deps, renderer, schedulingURL, router.startupTime)

	settings := routeSettings{
		auth:          newAdminAuth(config.GetString(router.config, "ADMIN_PASSWORD", "")),
		origins:       config.GetStrings(router.config, "ACCEPTED_ORIGINS"),
		limiter:       deps.Limiter,
		perMinute:     config.GetInt(router.config, "RATE_LIMIT_PER_MINUTE", 20),
		secureCookies: config.GetBool(router.config, "SECURE_COOKIES", false),
		leads:         deps.Leads,
	}

	setupAPIRoutes(chiRouter, handlers, settings)
	setupPublicRoutes(chiRouter, handlers, settings)
	setupAdminRoutes(chiRouter, handlers, settings)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
