package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"brieflinks/internal/db"
	"brieflinks/internal/email"
	"brieflinks/internal/models"
	"brieflinks/internal/validation"
)

// SendEmailHandler sends one-off emails through the authenticated user's own
// Gmail account using the credential captured at login.
type SendEmailHandler struct {
	db    *db.DB
	gmail *email.Gmail
}

// NewSendEmailHandler creates a new send-email handler.
func NewSendEmailHandler(database *db.DB, gmail *email.Gmail) *SendEmailHandler {
	return &SendEmailHandler{db: database, gmail: gmail}
}

// Send delivers an HTML email from the caller's mailbox. The refreshed access
// token returned by the exchange is persisted so the next send can reuse it.
func (h *SendEmailHandler) Send(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body struct {
		To      string `json:"to"`
		ToName  string `json:"to_name"`
		Subject string `json:"subject"`
		HTML    string `json:"html"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateEmail(body.To) {
		return jsonError(c, fiber.StatusBadRequest, "invalid recipient email")
	}
	if body.Subject == "" || body.HTML == "" {
		return jsonError(c, fiber.StatusBadRequest, "subject and html are required")
	}

	token, err := h.db.GetGoogleTokenByUserID(c.Context(), user.ID)
	if err != nil {
		if errors.Is(err, db.ErrTokenNotFound) {
			return jsonError(c, fiber.StatusForbidden, "no_token")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to load credential")
	}

	result, err := h.gmail.Send(c.Context(), email.SendParams{
		RefreshToken: token.RefreshToken,
		From:         user.Email,
		FromName:     user.DisplayName(),
		To:           body.To,
		Subject:      body.Subject,
		HTML:         body.HTML,
	})
	if err != nil {
		var exchangeErr *email.CredentialExchangeError
		if errors.As(err, &exchangeErr) {
			log.Printf("Credential exchange failed for user %s: %v", user.ID, err)
			return jsonError(c, fiber.StatusForbidden, "no_token")
		}
		log.Printf("Send failed for user %s: %v", user.ID, err)
		return jsonError(c, fiber.StatusBadGateway, "failed to send email")
	}

	if result.AccessToken != "" {
		if err := h.db.UpdateGoogleAccessToken(c.Context(), user.ID, result.AccessToken); err != nil {
			log.Printf("Failed to persist refreshed access token for user %s: %v", user.ID, err)
		}
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"messageId": result.MessageID,
	})
}
