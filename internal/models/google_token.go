package models

import (
	"time"

	"github.com/google/uuid"
)

// GoogleToken is a per-creator delegated credential enabling send-as-self
// email. The refresh token is stored once at authorization time; the access
// token is refreshed on demand.
type GoogleToken struct {
	UserID       uuid.UUID `json:"user_id"`
	RefreshToken string    `json:"-"`
	AccessToken  string    `json:"-"`
	UpdatedAt    time.Time `json:"updated_at"`
}
