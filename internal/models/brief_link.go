package models

import (
	"time"

	"github.com/google/uuid"
)

// Brief link statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Supported message languages.
const (
	LanguageHebrew  = "he"
	LanguageEnglish = "en"
)

// BriefLink is a shareable, single-use intake token. Creator identity is a
// snapshot taken at creation time, never resynchronized from the user record.
type BriefLink struct {
	ID             uuid.UUID  `json:"id"`
	Token          string     `json:"token"`
	CreatorID      uuid.UUID  `json:"creator_id"`
	CreatorEmail   string     `json:"creator_email"`
	CreatorName    string     `json:"creator_name"`
	ClientEmail    *string    `json:"client_email"`
	ClientName     *string    `json:"client_name"`
	Language       string     `json:"language"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	ReminderSentAt *time.Time `json:"reminder_sent_at"`
}

// CreatorDisplayName returns the creator's name, falling back to their email.
func (b *BriefLink) CreatorDisplayName() string {
	if b.CreatorName != "" {
		return b.CreatorName
	}
	return b.CreatorEmail
}
