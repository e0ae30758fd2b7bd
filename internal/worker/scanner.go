package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lifeboard/internal/amqp"
	"lifeboard/internal/billing"
	"lifeboard/internal/core"
	"lifeboard/internal/store"
)

// NoticePublisher publishes due notices to the message broker.
type NoticePublisher interface {
	PublishDueNotice(ctx context.Context, notice *amqp.DueNotice) error
}

// DueScanner periodically sweeps pending bills and upcoming events and
// publishes a notice for each one inside its reminder window. The notify
// worker turns those notices into notifications; the scanner itself never
// writes to the store.
type DueScanner struct {
	bills     store.BillStore
	events    store.EventStore
	publisher NoticePublisher
	clock     func() time.Time
}

func NewDueScanner(bills store.BillStore, events store.EventStore, publisher NoticePublisher, clock func() time.Time) *DueScanner {
	if clock == nil {
		clock = time.Now
	}
	return &DueScanner{
		bills:     bills,
		events:    events,
		publisher: publisher,
		clock:     clock,
	}
}

// Run scans on the given interval until ctx is cancelled. A scan runs
// immediately on startup so a restarted worker does not wait a full tick.
func (s *DueScanner) Run(ctx context.Context, interval time.Duration) error {
	if _, err := s.Scan(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial due scan failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping due scanner", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Scan(ctx); err != nil {
				slog.ErrorContext(ctx, "Due scan failed", "error", err)
			}
		}
	}
}

// Scan runs a single sweep and returns the number of notices published.
// Individual publish failures are logged and skipped so one bad message
// does not starve the rest of the batch.
func (s *DueScanner) Scan(ctx context.Context) (int, error) {
	today := core.DateOf(s.clock())
	published := 0

	bills, err := s.bills.ListPendingBills(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending bills: %w", err)
	}

	for _, b := range bills {
		status := billing.Classify(b, today)
		if status != billing.Overdue && status != billing.DueSoon {
			continue
		}

		notice := amqp.NewDueNotice("bill_due", b.ID, b.CreatedBy, b.Name, b.DueDate.String())
		if err := s.publisher.PublishDueNotice(ctx, notice); err != nil {
			slog.ErrorContext(ctx, "Failed to publish bill due notice",
				"bill_id", b.ID,
				"error", err)
			continue
		}
		published++
	}

	events, err := s.events.ListUpcomingEvents(ctx, today)
	if err != nil {
		return published, fmt.Errorf("list upcoming events: %w", err)
	}

	for _, e := range events {
		days := today.DaysUntil(e.Date)
		if days < 0 || days > e.RemindDaysBefore {
			continue
		}

		notice := amqp.NewDueNotice("event_reminder", e.ID, e.CreatedBy, e.Title, e.Date.String())
		if err := s.publisher.PublishDueNotice(ctx, notice); err != nil {
			slog.ErrorContext(ctx, "Failed to publish event reminder notice",
				"event_id", e.ID,
				"error", err)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Due scan complete",
		"date", today.String(),
		"bills_checked", len(bills),
		"events_checked", len(events),
		"published", published)

	return published, nil
}
