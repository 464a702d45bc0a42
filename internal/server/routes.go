package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brieflinks/internal/db"
	"brieflinks/internal/email"
	"brieflinks/internal/handlers"
	"brieflinks/internal/middleware"
	"brieflinks/internal/webhook"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, gmail *email.Gmail, templates *email.Templates, hook *webhook.Client, runner handlers.ReminderRunner) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	briefHandler := handlers.NewBriefHandler(database, s.Cfg, templates, hook)
	sendEmailHandler := handlers.NewSendEmailHandler(database, gmail)
	cronHandler := handlers.NewCronHandler(runner, s.Cfg.CronSecret)
	probeHandler := handlers.NewProbeHandler(database)

	// Auth routes - creators log in with Google so we can capture the
	// delegated Gmail credential.
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All creators must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	// Creator API - requires a session
	s.App.Post("/api/briefs", briefHandler.Create, authMiddleware.RequireAuth)
	s.App.Get("/api/briefs", briefHandler.List, authMiddleware.RequireAuth)
	s.App.Post("/api/send-email", sendEmailHandler.Send, authMiddleware.RequireAuth)

	// Client-facing API - the token is the credential
	s.App.Get("/api/briefs/:token", briefHandler.Get)
	s.App.Post("/api/briefs/:token/submit", briefHandler.Submit)

	// Cron trigger - bearer secret, no session
	s.App.Get("/api/cron/check-pending-briefs", cronHandler.CheckPendingBriefs)

	// Operational endpoints
	s.App.Get("/healthz", probeHandler.Healthz)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	return nil
}
