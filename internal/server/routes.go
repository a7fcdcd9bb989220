package server

import (
	"os"

	"github.com/fulmenhq/gofulmen/signals"
	"go.uber.org/zap"

	"github.com/handlelens/handlelens/internal/observability"
	"github.com/handlelens/handlelens/internal/server/handlers"
)

const adminTokenEnv = "HANDLELENS_ADMIN_TOKEN"

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes() {
	// Availability query endpoint
	checkHandler := &handlers.CheckHandler{Dispatcher: s.dispatcher}
	s.router.Post("/api/check", checkHandler.ServeHTTP)

	// Health endpoints
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)
	s.router.Get("/health/startup", handlers.StartupHandler)

	// Version endpoint
	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	// Admin signal endpoint (optional, requires HANDLELENS_ADMIN_TOKEN)
	s.registerAdminEndpoint()
}

// registerAdminEndpoint registers the signal endpoint when a token is set.
func (s *Server) registerAdminEndpoint() {
	adminToken := os.Getenv(adminTokenEnv)
	logger := observability.ServerLogger

	if adminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (no " + adminTokenEnv + " set)")
		}
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,
		RateBurst: 5,
		Manager:   nil,
	})

	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("auth", "bearer token"),
			zap.String("rate_limit", "10/min, burst 5"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
