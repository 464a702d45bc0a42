// Package jobs contains the overdue-brief reminder scheduler and its
// in-process runner.
package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"brieflinks/internal/calendar"
	"brieflinks/internal/email"
	"brieflinks/internal/metrics"
	"brieflinks/internal/models"
)

// Store is the datastore surface the scheduler needs.
type Store interface {
	GetOverdueCandidates(ctx context.Context) ([]models.BriefLink, error)
	GetGoogleTokensByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.GoogleToken, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
}

// Mailer sends one email through a creator's delegated credential.
type Mailer interface {
	Send(ctx context.Context, params email.SendParams) (*email.SendResult, error)
}

// Report summarizes one scheduler invocation.
type Report struct {
	Pending    int      // candidate links before the age filter
	Considered int      // overdue links examined this run
	Sent       int      // reminders successfully dispatched and marked
	Errors     []string // per-item failures; the batch never aborts on these
}

// Scheduler finds pending brief links older than the business-day threshold
// and sends each creator a single follow-up reminder through their own
// mailbox. Every link is reminded at most once.
type Scheduler struct {
	store     Store
	mailer    Mailer
	templates *email.Templates
	cal       *calendar.Calendar
	threshold int
	now       func() time.Time
}

// NewScheduler creates a reminder scheduler.
func NewScheduler(store Store, mailer Mailer, templates *email.Templates, cal *calendar.Calendar, thresholdDays int) *Scheduler {
	return &Scheduler{
		store:     store,
		mailer:    mailer,
		templates: templates,
		cal:       cal,
		threshold: thresholdDays,
		now:       time.Now,
	}
}

// Run executes one reminder pass. Rows are processed sequentially; row-level
// failures are collected in the report and the affected links stay eligible
// for the next run. Only the initial candidate query (or an uncovered
// calendar year) aborts the whole invocation.
func (s *Scheduler) Run(ctx context.Context) (*Report, error) {
	now := s.now()

	if !s.cal.CoversYear(now.Year()) {
		return nil, fmt.Errorf("business calendar has no holiday table for %d; extend the table before running reminders", now.Year())
	}

	candidates, err := s.store.GetOverdueCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder candidates: %w", err)
	}

	var overdue []models.BriefLink
	for _, brief := range candidates {
		if s.cal.OlderThanWorkingDays(brief.CreatedAt, now, s.threshold) {
			overdue = append(overdue, brief)
		}
	}

	report := &Report{Pending: len(candidates), Considered: len(overdue)}
	if len(overdue) == 0 {
		return report, nil
	}

	tokens := s.fetchTokens(ctx, overdue)

	for _, brief := range overdue {
		refreshToken, ok := tokens[brief.CreatorID]
		if !ok {
			report.Errors = append(report.Errors, fmt.Sprintf("No token for creator %s", brief.CreatorEmail))
			metrics.RecordReminderError()
			continue
		}

		businessDays := s.cal.CountWorkingDaysBetween(brief.CreatedAt, now)
		daysPassed := int(now.Sub(brief.CreatedAt).Hours() / 24)

		subject, html := s.templates.Reminder(&brief, businessDays)

		// The reminder goes to the creator about their own pending brief,
		// sent from their own mailbox.
		result, err := s.mailer.Send(ctx, email.SendParams{
			RefreshToken: refreshToken,
			From:         brief.CreatorEmail,
			FromName:     brief.CreatorDisplayName(),
			To:           brief.CreatorEmail,
			Subject:      subject,
			HTML:         html,
		})
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed for %s: %v", deref(brief.ClientEmail), err))
			metrics.RecordReminderError()
			log.Printf("Reminder failed for brief %s: %v", brief.ID, err)
			continue
		}

		if err := s.store.MarkReminderSent(ctx, brief.ID, now); err != nil {
			// The email went out but the marker write failed; the link stays
			// eligible and may be reminded again next run.
			report.Errors = append(report.Errors, fmt.Sprintf("Failed for %s: %v", deref(brief.ClientEmail), err))
			metrics.RecordReminderError()
			log.Printf("Reminder sent for brief %s (message %s) but marking failed: %v", brief.ID, result.MessageID, err)
			continue
		}

		report.Sent++
		metrics.RecordReminderSent()
		log.Printf("Reminder sent for brief %s to %s (%d business days, %d calendar days, message %s)",
			brief.ID, brief.CreatorEmail, businessDays, daysPassed, result.MessageID)
	}

	return report, nil
}

// fetchTokens batch-loads delegated credentials for the distinct creators of
// the overdue set. A lookup failure degrades to an empty map: every row then
// reports a missing token and stays eligible for the next run.
func (s *Scheduler) fetchTokens(ctx context.Context, overdue []models.BriefLink) map[uuid.UUID]string {
	seen := make(map[uuid.UUID]struct{}, len(overdue))
	var creatorIDs []uuid.UUID
	for _, brief := range overdue {
		if _, ok := seen[brief.CreatorID]; ok {
			continue
		}
		seen[brief.CreatorID] = struct{}{}
		creatorIDs = append(creatorIDs, brief.CreatorID)
	}

	tokens := make(map[uuid.UUID]string, len(creatorIDs))
	records, err := s.store.GetGoogleTokensByUserIDs(ctx, creatorIDs)
	if err != nil {
		log.Printf("Failed to fetch delegated credentials: %v", err)
		return tokens
	}
	for _, record := range records {
		tokens[record.UserID] = record.RefreshToken
	}
	return tokens
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
