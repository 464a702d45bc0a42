package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"brieflinks/internal/models"
)

// UpsertGoogleToken stores or overwrites a user's delegated Google credential.
// Called from the OAuth callback whenever the provider hands us tokens.
func (d *DB) UpsertGoogleToken(ctx context.Context, token *models.GoogleToken) error {
	query := `
		INSERT INTO user_google_tokens (user_id, refresh_token, access_token, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			refresh_token = EXCLUDED.refresh_token,
			access_token = EXCLUDED.access_token,
			updated_at = NOW()
		RETURNING updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		token.UserID,
		token.RefreshToken,
		token.AccessToken,
	).Scan(&token.UpdatedAt)
}

// GetGoogleTokenByUserID retrieves a user's delegated credential.
func (d *DB) GetGoogleTokenByUserID(ctx context.Context, userID uuid.UUID) (*models.GoogleToken, error) {
	query := `
		SELECT user_id, refresh_token, access_token, updated_at
		FROM user_google_tokens WHERE user_id = $1
	`

	var token models.GoogleToken
	err := d.Pool.QueryRow(ctx, query, userID).Scan(
		&token.UserID,
		&token.RefreshToken,
		&token.AccessToken,
		&token.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &token, nil
}

// GetGoogleTokensByUserIDs batch-fetches delegated credentials for a set of
// users. Users without a stored credential are simply absent from the result.
func (d *DB) GetGoogleTokensByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.GoogleToken, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT user_id, refresh_token, access_token, updated_at
		FROM user_google_tokens WHERE user_id = ANY($1)
	`
	rows, err := d.Pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []models.GoogleToken
	for rows.Next() {
		var token models.GoogleToken
		if err := rows.Scan(&token.UserID, &token.RefreshToken, &token.AccessToken, &token.UpdatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	return tokens, rows.Err()
}

// UpdateGoogleAccessToken persists a freshly refreshed access token.
func (d *DB) UpdateGoogleAccessToken(ctx context.Context, userID uuid.UUID, accessToken string) error {
	query := `
		UPDATE user_google_tokens
		SET access_token = $1, updated_at = NOW()
		WHERE user_id = $2
	`
	result, err := d.Pool.Exec(ctx, query, accessToken, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}
