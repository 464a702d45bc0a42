// Package handlers contains the HTTP handlers for the brief-link API.
package handlers

import "github.com/gofiber/fiber/v3"

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
