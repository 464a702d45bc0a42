package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"brieflinks/internal/db"
)

var (
	briefStatusDesc = prometheus.NewDesc(
		"brieflinks_briefs_total",
		"Total brief links by status",
		[]string{"status"},
		nil,
	)

	remindersSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "brieflinks_reminders_sent_total",
		Help: "Total reminder emails successfully dispatched",
	})

	reminderErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "brieflinks_reminder_errors_total",
		Help: "Total per-item reminder failures (missing credential, send or mark failure)",
	})
)

// BriefCollector is a custom Prometheus collector that reads brief counts
// from the database on each scrape.
type BriefCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *BriefCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- briefStatusDesc
}

// Collect queries the database for brief counts and emits them as gauges.
func (c *BriefCollector) Collect(ch chan<- prometheus.Metric) {
	counts, err := c.db.CountBriefsByStatus(context.Background())
	if err != nil {
		slog.Error("failed to collect brief status metrics", "error", err)
		return
	}
	for status, count := range counts {
		ch <- prometheus.MustNewConstMetric(
			briefStatusDesc,
			prometheus.GaugeValue,
			float64(count),
			status,
		)
	}
}

var initOnce sync.Once

// Init registers the custom collector and the reminder counters.
// Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&BriefCollector{db: database})
		prometheus.MustRegister(remindersSent, reminderErrors)
	})
}

// RecordReminderSent increments the dispatched-reminder counter.
func RecordReminderSent() {
	remindersSent.Inc()
}

// RecordReminderError increments the per-item reminder failure counter.
func RecordReminderError() {
	reminderErrors.Inc()
}
