package db

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"brieflinks/internal/models"
)

func TestUpsertGoogleToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestCreator(t, db, "creator-token")

	token := &models.GoogleToken{
		UserID:       user.ID,
		RefreshToken: "refresh-1",
		AccessToken:  "access-1",
	}
	if err := db.UpsertGoogleToken(ctx, token); err != nil {
		t.Fatalf("UpsertGoogleToken() error = %v", err)
	}

	// A second consenting login replaces the stored credential.
	token.RefreshToken = "refresh-2"
	token.AccessToken = "access-2"
	if err := db.UpsertGoogleToken(ctx, token); err != nil {
		t.Fatalf("second UpsertGoogleToken() error = %v", err)
	}

	got, err := db.GetGoogleTokenByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetGoogleTokenByUserID() error = %v", err)
	}
	if got.RefreshToken != "refresh-2" || got.AccessToken != "access-2" {
		t.Errorf("got %q/%q, want the replaced credential", got.RefreshToken, got.AccessToken)
	}
}

func TestGetGoogleTokenByUserID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := db.GetGoogleTokenByUserID(context.Background(), uuid.New())
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("error = %v, want ErrTokenNotFound", err)
	}
}

func TestGetGoogleTokensByUserIDs(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	withToken := createTestCreator(t, db, "creator-with")
	withoutToken := createTestCreator(t, db, "creator-without")

	err := db.UpsertGoogleToken(ctx, &models.GoogleToken{
		UserID:       withToken.ID,
		RefreshToken: "rt",
		AccessToken:  "at",
	})
	if err != nil {
		t.Fatalf("UpsertGoogleToken() error = %v", err)
	}

	tokens, err := db.GetGoogleTokensByUserIDs(ctx, []uuid.UUID{withToken.ID, withoutToken.ID})
	if err != nil {
		t.Fatalf("GetGoogleTokensByUserIDs() error = %v", err)
	}
	if len(tokens) != 1 {
		t.Fatalf("got %d tokens, want 1", len(tokens))
	}
	if tokens[0].UserID != withToken.ID {
		t.Errorf("UserID = %s, want %s", tokens[0].UserID, withToken.ID)
	}

	tokens, err = db.GetGoogleTokensByUserIDs(ctx, nil)
	if err != nil {
		t.Fatalf("GetGoogleTokensByUserIDs(nil) error = %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("got %d tokens for empty input", len(tokens))
	}
}

func TestUpdateGoogleAccessToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	user := createTestCreator(t, db, "creator-refresh")

	err := db.UpsertGoogleToken(ctx, &models.GoogleToken{
		UserID:       user.ID,
		RefreshToken: "rt",
		AccessToken:  "stale",
	})
	if err != nil {
		t.Fatalf("UpsertGoogleToken() error = %v", err)
	}

	if err := db.UpdateGoogleAccessToken(ctx, user.ID, "fresh"); err != nil {
		t.Fatalf("UpdateGoogleAccessToken() error = %v", err)
	}

	got, err := db.GetGoogleTokenByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetGoogleTokenByUserID() error = %v", err)
	}
	if got.AccessToken != "fresh" {
		t.Errorf("AccessToken = %q, want fresh", got.AccessToken)
	}
	if got.RefreshToken != "rt" {
		t.Errorf("RefreshToken = %q, want untouched", got.RefreshToken)
	}

	if err := db.UpdateGoogleAccessToken(ctx, uuid.New(), "x"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("unknown user error = %v, want ErrTokenNotFound", err)
	}
}
