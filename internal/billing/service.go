package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"lifeboard/internal/core"
	"lifeboard/internal/notify"
	"lifeboard/internal/store"
)

// ErrAlreadyPaid is returned when paying a bill that is no longer pending.
// Paid is terminal; a retried pay must not respawn another occurrence.
var ErrAlreadyPaid = errors.New("bill already paid")

// Service orchestrates bill writes: creation, payment (with recurrence
// advancement), and deletion. Reads go straight to the store; urgency is
// always derived through Classify and never written back.
type Service struct {
	store      store.Store
	reconciler *notify.Reconciler
	clock      func() time.Time
}

// NewService creates a bill service. The clock is injectable so date-boundary
// behavior is testable; pass nil for time.Now.
func NewService(s store.Store, r *notify.Reconciler, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: s, reconciler: r, clock: clock}
}

// Today returns the current calendar date from the injected clock.
func (s *Service) Today() core.Date {
	return core.DateOf(s.clock())
}

// CreateBill validates and persists a new pending bill for the owner.
// Validation failures never reach the store.
func (s *Service) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	b.Status = core.BillPending
	if b.NotifyDaysBefore < 0 {
		b.NotifyDaysBefore = core.DefaultNotifyDaysBefore
	}
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}

	created, err := s.store.CreateBill(ctx, b)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	slog.InfoContext(ctx, "Bill created",
		"bill_id", created.ID,
		"name", created.Name,
		"amount_cents", created.Amount.Cents,
		"due_date", created.DueDate.String(),
		"recurring", created.Recurring)

	return created, nil
}

// UpdateBill validates and persists edits to an existing bill.
func (s *Service) UpdateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	updated, err := s.store.UpdateBill(ctx, b)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}
	return updated, nil
}

// MarkPaid transitions a pending bill to paid. For a recurring bill it also
// spawns the next pending occurrence at the advanced due date, and in either
// case it kicks off a fire-and-forget sweep of the user's unread bill_due
// notifications. Returns the paid bill and the spawned occurrence (nil for
// non-recurring bills). Paying an already-paid bill returns ErrAlreadyPaid.
func (s *Service) MarkPaid(ctx context.Context, id string) (core.Bill, *core.Bill, error) {
	bill, err := s.store.GetBill(ctx, id)
	if err != nil {
		return core.Bill{}, nil, fmt.Errorf("get bill: %w", err)
	}
	if bill.Status == core.BillPaid {
		return core.Bill{}, nil, ErrAlreadyPaid
	}

	bill.Status = core.BillPaid
	paid, err := s.store.UpdateBill(ctx, bill)
	if err != nil {
		return core.Bill{}, nil, fmt.Errorf("mark bill paid: %w", err)
	}

	var next *core.Bill
	if paid.Recurring {
		nextDue, err := NextDueDate(paid.DueDate, paid.Frequency)
		if err != nil {
			// Paying succeeded; a broken frequency only loses the respawn.
			slog.ErrorContext(ctx, "Failed to advance recurring bill",
				"bill_id", paid.ID, "frequency", paid.Frequency, "error", err)
		} else {
			occurrence := paid
			occurrence.ID = ""
			occurrence.Status = core.BillPending
			occurrence.DueDate = nextDue
			created, err := s.store.CreateBill(ctx, occurrence)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to spawn next occurrence",
					"bill_id", paid.ID, "next_due", nextDue.String(), "error", err)
			} else {
				next = &created
				slog.InfoContext(ctx, "Spawned next bill occurrence",
					"bill_id", paid.ID,
					"next_id", created.ID,
					"next_due", nextDue.String())
			}
		}
	}

	s.sweepBillDue(ctx, paid.CreatedBy)

	return paid, next, nil
}

// DeleteBill removes a bill record.
func (s *Service) DeleteBill(ctx context.Context, id string) error {
	if err := s.store.DeleteBill(ctx, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return nil
}

// ListBills returns the owner's bills.
func (s *Service) ListBills(ctx context.Context, owner string) ([]core.Bill, error) {
	bills, err := s.store.ListBills(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	return bills, nil
}

// sweepBillDue launches the coarse bill_due reconciliation without blocking
// the caller. The sweep outlives the triggering request.
func (s *Service) sweepBillDue(ctx context.Context, userID string) {
	if s.reconciler == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		if _, err := s.reconciler.Reconcile(bg, userID, core.NotifyBillDue); err != nil {
			slog.ErrorContext(bg, "Bill_due reconciliation failed", "user_id", userID, "error", err)
		}
	}()
}
