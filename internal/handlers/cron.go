package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v3"

	"brieflinks/internal/jobs"
)

// ReminderRunner runs one reminder pass and reports what happened.
type ReminderRunner interface {
	Run(ctx context.Context) (*jobs.Report, error)
}

// CronHandler exposes the reminder pass to an external scheduler. The
// endpoint is idempotent: rows already reminded are never picked up again,
// so overlapping triggers only cost a query.
type CronHandler struct {
	runner ReminderRunner
	secret string
}

// NewCronHandler creates a new cron handler.
func NewCronHandler(runner ReminderRunner, secret string) *CronHandler {
	return &CronHandler{runner: runner, secret: secret}
}

// CheckPendingBriefs triggers a reminder pass. Requires a bearer secret; an
// unset secret disables the endpoint entirely.
func (h *CronHandler) CheckPendingBriefs(c fiber.Ctx) error {
	if h.secret == "" || c.Get("Authorization") != "Bearer "+h.secret {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	report, err := h.runner.Run(c.Context())
	if err != nil {
		log.Printf("Reminder pass failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "server_error")
	}

	if report.Pending == 0 {
		return c.JSON(fiber.Map{
			"message": "No pending briefs to remind",
			"count":   0,
		})
	}
	if report.Considered == 0 {
		return c.JSON(fiber.Map{
			"message": "No overdue briefs",
			"count":   0,
		})
	}

	resp := fiber.Map{
		"message": fmt.Sprintf("Processed %d overdue briefs", report.Considered),
		"sent":    report.Sent,
	}
	if len(report.Errors) > 0 {
		resp["errors"] = report.Errors
	}
	return c.JSON(resp)
}
