package db

import "errors"

// Domain-level database error sentinels.
var (
	// Brief link errors
	ErrBriefNotFound  = errors.New("brief link not found")
	ErrBriefCompleted = errors.New("brief has already been completed")

	// Delegated credential errors
	ErrTokenNotFound = errors.New("google token not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)
