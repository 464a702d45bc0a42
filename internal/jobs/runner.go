package jobs

import (
	"context"
	"log"
	"time"
)

// Runner invokes the reminder scheduler on a fixed interval, for deployments
// without an external cron hitting the trigger endpoint.
type Runner struct {
	scheduler *Scheduler
	interval  time.Duration
}

// NewRunner creates a reminder runner.
func NewRunner(scheduler *Scheduler, interval time.Duration) *Runner {
	return &Runner{scheduler: scheduler, interval: interval}
}

// Start begins the reminder loop. Runs once immediately, then on every tick
// until the context is cancelled.
func (r *Runner) Start(ctx context.Context) {
	log.Printf("Reminder runner started (interval: %v)", r.interval)

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder runner stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	report, err := r.scheduler.Run(ctx)
	if err != nil {
		log.Printf("Reminder run failed: %v", err)
		return
	}

	if report.Considered == 0 {
		return
	}

	log.Printf("Reminder run: %d overdue, %d sent, %d errors",
		report.Considered, report.Sent, len(report.Errors))
	for _, msg := range report.Errors {
		log.Printf("Reminder error: %s", msg)
	}
}
