package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifeboard/internal/amqp"
	"lifeboard/internal/core"
	"lifeboard/internal/store/memory"
)

type fakePublisher struct {
	notices []*amqp.DueNotice
	failOn  string // RefID that triggers a publish error
}

func (p *fakePublisher) PublishDueNotice(_ context.Context, notice *amqp.DueNotice) error {
	if p.failOn != "" && notice.RefID == p.failOn {
		return errors.New("broker unavailable")
	}
	p.notices = append(p.notices, notice)
	return nil
}

func fixedClock(year, month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.Month(month), day, 9, 0, 0, 0, time.UTC)
	}
}

func TestDueScanner_Scan(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	mkBill := func(name string, due core.Date, status core.BillStatus) core.Bill {
		b, err := st.CreateBill(ctx, core.Bill{
			Name:             name,
			Amount:           core.Money{Cents: 1000},
			DueDate:          due,
			Status:           status,
			NotifyDaysBefore: -1,
			CreatedBy:        "user-1",
		})
		if err != nil {
			t.Fatalf("CreateBill(%s) error = %v", name, err)
		}
		return b
	}

	// Today is 2025-06-15, default window 3 days
	overdue := mkBill("Overdue", core.NewDate(2025, 6, 10), core.BillPending)
	dueSoon := mkBill("DueSoon", core.NewDate(2025, 6, 17), core.BillPending)
	mkBill("Upcoming", core.NewDate(2025, 7, 1), core.BillPending)
	mkBill("Paid", core.NewDate(2025, 6, 15), core.BillPaid)

	soonEvent, err := st.CreateEvent(ctx, core.Event{
		Title:            "Dentist",
		Date:             core.NewDate(2025, 6, 16),
		RemindDaysBefore: 2,
		CreatedBy:        "user-1",
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	_, err = st.CreateEvent(ctx, core.Event{
		Title:            "Conference",
		Date:             core.NewDate(2025, 8, 1),
		RemindDaysBefore: 2,
		CreatedBy:        "user-1",
	})
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}

	pub := &fakePublisher{}
	scanner := NewDueScanner(st, st, pub, fixedClock(2025, 6, 15))

	published, err := scanner.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if published != 3 {
		t.Fatalf("Scan() published = %d, want 3", published)
	}

	byRef := make(map[string]*amqp.DueNotice)
	for _, n := range pub.notices {
		byRef[n.RefID] = n
	}

	if n, ok := byRef[overdue.ID]; !ok {
		t.Error("overdue bill should produce a notice")
	} else if n.Kind != "bill_due" {
		t.Errorf("overdue notice Kind = %v, want bill_due", n.Kind)
	}
	if _, ok := byRef[dueSoon.ID]; !ok {
		t.Error("due soon bill should produce a notice")
	}
	if n, ok := byRef[soonEvent.ID]; !ok {
		t.Error("event inside reminder window should produce a notice")
	} else if n.Kind != "event_reminder" {
		t.Errorf("event notice Kind = %v, want event_reminder", n.Kind)
	}
}

func TestDueScanner_PublishFailureSkipsItem(t *testing.T) {
	ctx := context.Background()
	st := memory.New()

	b1, _ := st.CreateBill(ctx, core.Bill{
		Name: "First", Amount: core.Money{Cents: 100},
		DueDate: core.NewDate(2025, 6, 10), Status: core.BillPending,
		NotifyDaysBefore: -1, CreatedBy: "user-1",
	})
	b2, _ := st.CreateBill(ctx, core.Bill{
		Name: "Second", Amount: core.Money{Cents: 100},
		DueDate: core.NewDate(2025, 6, 11), Status: core.BillPending,
		NotifyDaysBefore: -1, CreatedBy: "user-1",
	})

	pub := &fakePublisher{failOn: b1.ID}
	scanner := NewDueScanner(st, st, pub, fixedClock(2025, 6, 15))

	published, err := scanner.Scan(ctx)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if published != 1 {
		t.Errorf("Scan() published = %d, want 1", published)
	}
	if len(pub.notices) != 1 || pub.notices[0].RefID != b2.ID {
		t.Errorf("surviving notice should be for %s, got %+v", b2.ID, pub.notices)
	}
}
