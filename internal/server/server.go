// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"unispace/internal/config"
	"unispace/internal/domain/identity"
	"unispace/internal/domain/remote"
	"unispace/internal/domain/space"
	"unispace/internal/replica"
	"unispace/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	syncer space.Syncer,
	members space.Membership,
	msgs space.Log,
	store *replica.Store,
	gateway remote.Gateway,
	ident identity.Provider,
	log zerolog.Logger,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	spaceHandler := handlers.NewSpaceHandler(syncer, members, msgs, store, gateway, ident, log)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Spaces API
			r.Route("/spaces", func(r chi.Router) {
				r.Get("/", spaceHandler.ListSpaces)
				r.Post("/", spaceHandler.CreateSpace)
				r.Post("/refresh", spaceHandler.Refresh)
				r.Get("/joined", spaceHandler.JoinedSpaces)
				r.Get("/{id}", spaceHandler.GetSpace)
				r.Post("/{id}/join", spaceHandler.JoinSpace)
				r.Post("/{id}/leave", spaceHandler.LeaveSpace)

				// Space messages
				r.Route("/{id}/messages", func(r chi.Router) {
					r.Get("/", spaceHandler.GetMessages)
					r.Post("/", spaceHandler.SendMessage)
				})
			})
		})
	})

	// Prometheus metrics
	router.Handle("/metrics", promhttp.Handler())

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
