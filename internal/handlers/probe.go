package handlers

import (
	"github.com/gofiber/fiber/v3"

	"brieflinks/internal/db"
)

// ProbeHandler answers liveness/readiness checks.
type ProbeHandler struct {
	db *db.DB
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(database *db.DB) *ProbeHandler {
	return &ProbeHandler{db: database}
}

// Healthz reports process liveness and database reachability.
func (h *ProbeHandler) Healthz(c fiber.Ctx) error {
	if err := h.db.Pool.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy"})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
