package server

import (
	"os"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hide0128/finder/internal/appid"
	"github.com/hide0128/finder/internal/observability"
	"github.com/hide0128/finder/internal/server/handlers"
	servermw "github.com/hide0128/finder/internal/server/middleware"
)

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.health.HealthHandler)
	s.router.Get("/health/live", s.health.LivenessHandler)
	s.router.Get("/health/ready", s.health.ReadinessHandler)

	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", MetricsHandler)

	if s.api != nil {
		s.router.Route("/v1", func(r chi.Router) {
			r.Use(servermw.MaxBody(s.cfg.MaxBodyBytes))
			r.Post("/normalize", s.api.Normalize)
			r.Post("/lookup", s.api.Lookup)
			r.Post("/export", s.api.Export)
		})
	}

	s.registerAdminEndpoint()
}

// registerAdminEndpoint mounts /admin/signal when <PREFIX>ADMIN_TOKEN is set.
func (s *Server) registerAdminEndpoint() {
	envName := appid.Get().Prefix() + "ADMIN_TOKEN"
	adminToken := os.Getenv(envName)
	logger := observability.Logger()

	if adminToken == "" {
		logger.Debug("Admin signal endpoint disabled (no " + envName + " set)")
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,
		RateBurst: 5,
		Manager:   nil,
	})
	s.router.Post("/admin/signal", handler.ServeHTTP)

	logger.Info("Admin signal endpoint enabled",
		zap.String("path", "/admin/signal"),
		zap.String("rate_limit", "10/min, burst 5"))
}
