package validation

import (
	"net/mail"
	"regexp"

	"brieflinks/internal/models"
)

// TokenPattern defines the valid brief token format: URL-safe base64.
var TokenPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateEmail checks that an address parses as a bare RFC 5322 address.
func ValidateEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// Reject display-name forms like `Name <a@b.c>`.
	return addr.Address == email
}

// ValidateToken checks if a brief token matches the generated format.
func ValidateToken(token string) bool {
	if token == "" || len(token) > 64 {
		return false
	}
	return TokenPattern.MatchString(token)
}

// NormalizeLanguage maps a requested locale onto a supported message
// language, defaulting to Hebrew.
func NormalizeLanguage(language string) string {
	if language == models.LanguageEnglish {
		return models.LanguageEnglish
	}
	return models.LanguageHebrew
}
