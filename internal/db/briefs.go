package db

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"brieflinks/internal/models"
)

// briefColumns is the standard column list for brief link queries.
const briefColumns = `id, token, creator_id, creator_email, creator_name,
	client_email, client_name, language, status, created_at, reminder_sent_at`

// scanBrief scans a row into a BriefLink struct.
func scanBrief(row pgx.Row) (*models.BriefLink, error) {
	var b models.BriefLink
	err := row.Scan(
		&b.ID,
		&b.Token,
		&b.CreatorID,
		&b.CreatorEmail,
		&b.CreatorName,
		&b.ClientEmail,
		&b.ClientName,
		&b.Language,
		&b.Status,
		&b.CreatedAt,
		&b.ReminderSentAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBriefNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// scanBriefs scans multiple rows into a slice of BriefLinks.
func scanBriefs(rows pgx.Rows) ([]models.BriefLink, error) {
	defer rows.Close()

	var briefs []models.BriefLink
	for rows.Next() {
		var b models.BriefLink
		if err := rows.Scan(
			&b.ID,
			&b.Token,
			&b.CreatorID,
			&b.CreatorEmail,
			&b.CreatorName,
			&b.ClientEmail,
			&b.ClientName,
			&b.Language,
			&b.Status,
			&b.CreatedAt,
			&b.ReminderSentAt,
		); err != nil {
			return nil, err
		}
		briefs = append(briefs, b)
	}

	return briefs, rows.Err()
}

// newToken generates an unguessable URL-safe token for a brief link.
func newToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// CreateBriefLink inserts a new pending brief link with a server-generated
// token. Creator identity is stored as an immutable snapshot. The token has a
// unique index; on the astronomically unlikely collision the insert is retried
// with a fresh token.
func (d *DB) CreateBriefLink(ctx context.Context, brief *models.BriefLink) error {
	query := `
		INSERT INTO brief_links (token, creator_id, creator_email, creator_name, client_email, client_name, language, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	if brief.Language == "" {
		brief.Language = models.LanguageHebrew
	}

	for attempt := 0; attempt < 3; attempt++ {
		token := newToken()
		err := d.Pool.QueryRow(ctx, query,
			token,
			brief.CreatorID,
			brief.CreatorEmail,
			brief.CreatorName,
			brief.ClientEmail,
			brief.ClientName,
			brief.Language,
			models.StatusPending,
		).Scan(&brief.ID, &brief.CreatedAt)

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		if err != nil {
			return err
		}

		brief.Token = token
		brief.Status = models.StatusPending
		brief.ReminderSentAt = nil
		return nil
	}

	return errors.New("failed to generate a unique brief token")
}

// GetBriefByToken retrieves a brief link by its public token.
func (d *DB) GetBriefByToken(ctx context.Context, token string) (*models.BriefLink, error) {
	query := `SELECT ` + briefColumns + ` FROM brief_links WHERE token = $1`
	return scanBrief(d.Pool.QueryRow(ctx, query, token))
}

// ListBriefsByCreator retrieves all brief links created by a user, newest first.
func (d *DB) ListBriefsByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.BriefLink, error) {
	query := `
		SELECT ` + briefColumns + `
		FROM brief_links
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	return scanBriefs(rows)
}

// GetOverdueCandidates retrieves pending, unreminded, client-addressed brief
// links. Age filtering against the business calendar happens in the caller.
func (d *DB) GetOverdueCandidates(ctx context.Context) ([]models.BriefLink, error) {
	query := `
		SELECT ` + briefColumns + `
		FROM brief_links
		WHERE status = $1 AND reminder_sent_at IS NULL AND client_email IS NOT NULL
		ORDER BY created_at ASC
	`
	rows, err := d.Pool.Query(ctx, query, models.StatusPending)
	if err != nil {
		return nil, err
	}
	return scanBriefs(rows)
}

// MarkReminderSent records that a reminder was dispatched for a brief link.
// The write only succeeds while reminder_sent_at is still null, so overlapping
// invocations cannot mark the same link twice.
func (d *DB) MarkReminderSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE brief_links
		SET reminder_sent_at = $1
		WHERE id = $2 AND reminder_sent_at IS NULL
	`
	result, err := d.Pool.Exec(ctx, query, sentAt, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrBriefNotFound
	}
	return nil
}

// MarkCompleted transitions a brief link from pending to completed. The
// transition happens exactly once; a second call returns ErrBriefCompleted.
func (d *DB) MarkCompleted(ctx context.Context, token string) (*models.BriefLink, error) {
	query := `
		UPDATE brief_links
		SET status = $1
		WHERE token = $2 AND status = $3
		RETURNING ` + briefColumns

	brief, err := scanBrief(d.Pool.QueryRow(ctx, query, models.StatusCompleted, token, models.StatusPending))
	if errors.Is(err, ErrBriefNotFound) {
		// Distinguish an unknown token from an already-completed brief.
		if _, lookupErr := d.GetBriefByToken(ctx, token); lookupErr == nil {
			return nil, ErrBriefCompleted
		}
		return nil, ErrBriefNotFound
	}
	return brief, err
}

// CountBriefsByStatus returns the number of brief links per status.
func (d *DB) CountBriefsByStatus(ctx context.Context) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM brief_links GROUP BY status`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
