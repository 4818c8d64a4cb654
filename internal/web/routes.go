package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/group-memory/internal/blob"
	"github.com/kozaktomas/group-memory/internal/web/handlers"
	"github.com/kozaktomas/group-memory/internal/web/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) setupRoutes() {
	// Create handlers
	var files *blob.FileStore
	backend := ""
	if s.deps.Blobs != nil {
		files = s.deps.Blobs.Files()
		backend = s.deps.Blobs.Backend()
	}

	configHandler := handlers.NewConfigHandler(s.config, s.deps.Model, backend)
	groupsHandler := handlers.NewGroupsHandler(s.deps.Groups, s.deps.Blobs)
	membersHandler := handlers.NewMembersHandler(s.deps.Groups)
	askHandler := handlers.NewAskHandler(s.deps.Asker)
	blobsHandler := handlers.NewBlobsHandler(files)

	// Health check and metrics (no auth required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)
	s.router.Method("GET", "/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireToken(s.config.Web.APIToken))

		// Config
		r.Get("/config", configHandler.Get)

		// Groups
		r.Get("/groups", groupsHandler.List)
		r.Post("/groups", groupsHandler.Create)
		r.Get("/groups/{id}", groupsHandler.Get)
		r.Get("/groups/{id}/image", groupsHandler.Image)

		// Members
		r.Post("/groups/{id}/members", membersHandler.Add)

		// Ask
		r.Post("/groups/{id}/ask", askHandler.Ask)

		// File backend downloads
		r.Get("/blobs/{key}", blobsHandler.Get)
	})
}
