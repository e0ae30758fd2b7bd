package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifeboard/internal/core"
	"lifeboard/internal/notify"
	"lifeboard/internal/store"
	"lifeboard/internal/store/memory"
)

func fixedClock(year, month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.Month(month), day, 10, 0, 0, 0, time.UTC)
	}
}

func newTestService(t *testing.T, clock func() time.Time) (*Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewService(st, notify.NewReconciler(st), clock), st
}

func TestService_CreateBill(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, fixedClock(2025, 6, 15))

	created, err := svc.CreateBill(ctx, core.Bill{
		Name:             "Internet",
		Amount:           core.Money{Cents: 4999},
		DueDate:          core.NewDate(2025, 7, 1),
		Category:         "utilities",
		NotifyDaysBefore: -1,
		CreatedBy:        "user-1",
	})
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}

	if created.ID == "" {
		t.Error("created bill should have an ID")
	}
	if created.Status != core.BillPending {
		t.Errorf("Status = %v, want pending", created.Status)
	}
	if created.NotifyDaysBefore != core.DefaultNotifyDaysBefore {
		t.Errorf("NotifyDaysBefore = %d, want default %d", created.NotifyDaysBefore, core.DefaultNotifyDaysBefore)
	}
}

func TestService_CreateBill_ForcesPendingStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, fixedClock(2025, 6, 15))

	created, err := svc.CreateBill(ctx, core.Bill{
		Name:             "Sneaky",
		Amount:           core.Money{Cents: 100},
		DueDate:          core.NewDate(2025, 7, 1),
		Status:           core.BillPaid,
		NotifyDaysBefore: -1,
		CreatedBy:        "user-1",
	})
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}
	if created.Status != core.BillPending {
		t.Errorf("Status = %v, new bills are always pending", created.Status)
	}
}

func TestService_CreateBill_ValidationNeverHitsStore(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, fixedClock(2025, 6, 15))

	_, err := svc.CreateBill(ctx, core.Bill{
		Name:             "",
		Amount:           core.Money{Cents: 100},
		DueDate:          core.NewDate(2025, 7, 1),
		NotifyDaysBefore: -1,
	})
	if !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("CreateBill() error = %v, want ErrEmptyName", err)
	}

	bills, _ := st.ListBills(ctx, "")
	if len(bills) != 0 {
		t.Errorf("invalid bill reached the store: %+v", bills)
	}
}

func TestService_MarkPaid_NonRecurring(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, fixedClock(2025, 6, 15))

	created, err := svc.CreateBill(ctx, core.Bill{
		Name:             "One-off",
		Amount:           core.Money{Cents: 2500},
		DueDate:          core.NewDate(2025, 6, 20),
		NotifyDaysBefore: -1,
		CreatedBy:        "user-1",
	})
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}

	paid, next, err := svc.MarkPaid(ctx, created.ID)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if paid.Status != core.BillPaid {
		t.Errorf("Status = %v, want paid", paid.Status)
	}
	if next != nil {
		t.Errorf("non-recurring bill spawned occurrence %+v", next)
	}

	bills, _ := svc.ListBills(ctx, "user-1")
	if len(bills) != 1 {
		t.Errorf("got %d bills, want 1", len(bills))
	}
}

func TestService_MarkPaid_RecurringSpawnsClampedOccurrence(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, fixedClock(2025, 3, 20))

	created, err := svc.CreateBill(ctx, core.Bill{
		Name:             "Rent",
		Amount:           core.Money{Cents: 150000},
		DueDate:          core.NewDate(2024, 3, 31),
		Recurring:        true,
		Frequency:        core.Monthly,
		NotifyDaysBefore: -1,
		CreatedBy:        "user-1",
	})
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}

	paid, next, err := svc.MarkPaid(ctx, created.ID)
	if err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}
	if paid.Status != core.BillPaid {
		t.Errorf("paid.Status = %v, want paid", paid.Status)
	}
	if next == nil {
		t.Fatal("recurring bill should spawn the next occurrence")
	}
	if next.ID == "" || next.ID == paid.ID {
		t.Errorf("occurrence should be a distinct record, got ID %q", next.ID)
	}
	if next.Status != core.BillPending {
		t.Errorf("next.Status = %v, want pending", next.Status)
	}
	if want := core.NewDate(2024, 4, 30); !next.DueDate.Equal(want.Time) {
		t.Errorf("next.DueDate = %s, want %s (clamped)", next.DueDate, want)
	}
	if next.Amount != paid.Amount || next.Name != paid.Name {
		t.Error("occurrence should carry over name and amount")
	}

	bills, _ := svc.ListBills(ctx, "user-1")
	if len(bills) != 2 {
		t.Errorf("got %d bills, want 2 (paid + occurrence)", len(bills))
	}
}

func TestService_MarkPaid_SweepsBillDueNotifications(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t, fixedClock(2025, 6, 15))

	created, err := svc.CreateBill(ctx, core.Bill{
		Name:             "Gas",
		Amount:           core.Money{Cents: 8000},
		DueDate:          core.NewDate(2025, 6, 16),
		NotifyDaysBefore: -1,
		CreatedBy:        "user-1",
	})
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}

	// Two unread bill_due notifications, one unrelated event reminder
	for i := 0; i < 2; i++ {
		if _, err := st.CreateNotification(ctx, core.Notification{
			UserID: "user-1", Type: core.NotifyBillDue, Title: "Bill due", Message: "x",
		}); err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}
	if _, err := st.CreateNotification(ctx, core.Notification{
		UserID: "user-1", Type: core.NotifyEventReminder, Title: "Event", Message: "y",
	}); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	if _, _, err := svc.MarkPaid(ctx, created.ID); err != nil {
		t.Fatalf("MarkPaid() error = %v", err)
	}

	// The sweep runs in the background
	deadline := time.Now().Add(2 * time.Second)
	for {
		unread, err := st.ListUnreadNotifications(ctx, "user-1", core.NotifyBillDue)
		if err != nil {
			t.Fatalf("ListUnreadNotifications() error = %v", err)
		}
		if len(unread) == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("bill_due notifications never swept, %d still unread", len(unread))
		}
		time.Sleep(10 * time.Millisecond)
	}

	reminders, _ := st.ListUnreadNotifications(ctx, "user-1", core.NotifyEventReminder)
	if len(reminders) != 1 {
		t.Errorf("event reminders should be untouched by a bill_due sweep, got %d unread", len(reminders))
	}
}

func TestService_MarkPaid_AlreadyPaidIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, fixedClock(2025, 3, 20))

	created, err := svc.CreateBill(ctx, core.Bill{
		Name:             "Rent",
		Amount:           core.Money{Cents: 150000},
		DueDate:          core.NewDate(2025, 3, 31),
		Recurring:        true,
		Frequency:        core.Monthly,
		NotifyDaysBefore: -1,
		CreatedBy:        "user-1",
	})
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}

	if _, _, err := svc.MarkPaid(ctx, created.ID); err != nil {
		t.Fatalf("first MarkPaid() error = %v", err)
	}

	// A retried pay must not run the transition again or respawn
	_, next, err := svc.MarkPaid(ctx, created.ID)
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("second MarkPaid() error = %v, want ErrAlreadyPaid", err)
	}
	if next != nil {
		t.Errorf("second MarkPaid() spawned occurrence %+v", next)
	}

	bills, _ := svc.ListBills(ctx, "user-1")
	if len(bills) != 2 {
		t.Fatalf("got %d bills, want 2 (paid + single occurrence)", len(bills))
	}
	pending := 0
	for _, b := range bills {
		if b.Status == core.BillPending {
			pending++
		}
	}
	if pending != 1 {
		t.Errorf("got %d pending occurrences, want 1", pending)
	}
}

func TestService_MarkPaid_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, fixedClock(2025, 6, 15))

	_, _, err := svc.MarkPaid(ctx, "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("MarkPaid() error = %v, want ErrNotFound", err)
	}
}

func TestService_Today(t *testing.T) {
	svc, _ := newTestService(t, fixedClock(2025, 6, 15))
	if got := svc.Today(); !got.Equal(core.NewDate(2025, 6, 15).Time) {
		t.Errorf("Today() = %s, want 2025-06-15", got)
	}
}
