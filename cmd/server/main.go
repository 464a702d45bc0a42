package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"brieflinks/internal/calendar"
	"brieflinks/internal/config"
	"brieflinks/internal/db"
	"brieflinks/internal/email"
	"brieflinks/internal/jobs"
	"brieflinks/internal/metrics"
	"brieflinks/internal/server"
	"brieflinks/internal/webhook"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Register Prometheus collectors
	metrics.Init(database)

	// Domain services
	gmail := email.NewGmail(cfg)
	templates := email.NewTemplates(cfg)
	hook := webhook.New(cfg.WebhookURL)
	cal := calendar.Default()
	scheduler := jobs.NewScheduler(database, gmail, templates, cal, cfg.ReminderThresholdDays)

	// Optional in-process reminder loop; most deployments trigger the pass
	// through the cron endpoint instead.
	if cfg.ReminderInterval > 0 {
		runner := jobs.NewRunner(scheduler, cfg.ReminderInterval)
		go runner.Start(ctx)
		log.Printf("Reminder runner started with interval %s", cfg.ReminderInterval)
	}

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, gmail, templates, hook, scheduler); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
