package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/gofiber/fiber/v3"

	"brieflinks/internal/config"
	"brieflinks/internal/db"
	"brieflinks/internal/email"
	"brieflinks/internal/models"
	"brieflinks/internal/validation"
	"brieflinks/internal/webhook"
)

// BriefHandler handles brief link creation, listing and client submission.
type BriefHandler struct {
	db        *db.DB
	cfg       *config.Config
	templates *email.Templates
	webhook   *webhook.Client
}

// NewBriefHandler creates a new brief handler.
func NewBriefHandler(database *db.DB, cfg *config.Config, templates *email.Templates, hook *webhook.Client) *BriefHandler {
	return &BriefHandler{db: database, cfg: cfg, templates: templates, webhook: hook}
}

// Create mints a new brief link for the authenticated creator. When a client
// email is provided the intake webhook is asked to deliver the link; without
// one the creator shares the returned URL manually.
func (h *BriefHandler) Create(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body struct {
		ClientEmail string `json:"client_email"`
		ClientName  string `json:"client_name"`
		Language    string `json:"language"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	if body.ClientEmail != "" && !validation.ValidateEmail(body.ClientEmail) {
		return jsonError(c, fiber.StatusBadRequest, "invalid client email")
	}

	brief := &models.BriefLink{
		CreatorID:    user.ID,
		CreatorEmail: user.Email,
		CreatorName:  user.DisplayName(),
		ClientEmail:  nullIfEmpty(body.ClientEmail),
		ClientName:   nullIfEmpty(body.ClientName),
		Language:     validation.NormalizeLanguage(body.Language),
	}
	if err := h.db.CreateBriefLink(c.Context(), brief); err != nil {
		log.Printf("Failed to create brief link: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to create brief link")
	}

	link := h.templates.BriefLinkURL(brief.Token)

	if brief.ClientEmail != nil && h.webhook.IsEnabled() {
		err := h.webhook.Post(c.Context(), webhook.TypeSendBrief, map[string]any{
			"client_email":  *brief.ClientEmail,
			"brief_link":    link,
			"creator_email": brief.CreatorEmail,
			"creator_name":  brief.CreatorName,
			"language":      brief.Language,
		})
		if err != nil {
			// The link exists either way; the creator can still share it.
			log.Printf("Failed to forward brief %s to intake webhook: %v", brief.ID, err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"brief": brief,
		"link":  link,
	})
}

// List returns the authenticated creator's brief links, newest first.
func (h *BriefHandler) List(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	briefs, err := h.db.ListBriefsByCreator(c.Context(), user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch brief links")
	}

	return c.JSON(fiber.Map{"briefs": briefs})
}

// Get bootstraps the client-facing form: given a token it returns the link
// status and language. The token is the only handle; ids are never exposed.
func (h *BriefHandler) Get(c fiber.Ctx) error {
	token := c.Params("token")
	if !validation.ValidateToken(token) {
		return jsonError(c, fiber.StatusNotFound, "brief not found")
	}

	brief, err := h.db.GetBriefByToken(c.Context(), token)
	if err != nil {
		if errors.Is(err, db.ErrBriefNotFound) {
			return jsonError(c, fiber.StatusNotFound, "brief not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch brief")
	}

	return c.JSON(fiber.Map{
		"token":        brief.Token,
		"status":       brief.Status,
		"language":     brief.Language,
		"creator_name": brief.CreatorName,
		"client_name":  brief.ClientName,
	})
}

// Submit accepts the completed questionnaire for a pending brief, forwards
// the answers to the intake webhook and marks the link completed. A link
// completes exactly once; repeat submissions get 409.
func (h *BriefHandler) Submit(c fiber.Ctx) error {
	token := c.Params("token")
	if !validation.ValidateToken(token) {
		return jsonError(c, fiber.StatusNotFound, "brief not found")
	}

	brief, err := h.db.GetBriefByToken(c.Context(), token)
	if err != nil {
		if errors.Is(err, db.ErrBriefNotFound) {
			return jsonError(c, fiber.StatusNotFound, "brief not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch brief")
	}
	if brief.Status == models.StatusCompleted {
		return jsonError(c, fiber.StatusConflict, "brief already completed")
	}

	// Answers are an opaque object; the questionnaire shape belongs to the
	// intake automation, not to this service.
	var answers map[string]any
	if err := json.Unmarshal(c.Body(), &answers); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if h.webhook.IsEnabled() {
		err := h.webhook.Post(c.Context(), webhook.TypeBriefCompleted, map[string]any{
			"token":         brief.Token,
			"creator_email": brief.CreatorEmail,
			"creator_name":  brief.CreatorName,
			"client_email":  brief.ClientEmail,
			"language":      brief.Language,
			"answers":       answers,
		})
		if err != nil {
			log.Printf("Failed to forward submission for brief %s: %v", brief.ID, err)
			return jsonError(c, fiber.StatusBadGateway, "failed to forward submission")
		}
	}

	if _, err := h.db.MarkCompleted(c.Context(), token); err != nil {
		if errors.Is(err, db.ErrBriefCompleted) {
			return jsonError(c, fiber.StatusConflict, "brief already completed")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to complete brief")
	}

	return c.JSON(fiber.Map{"success": true})
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
