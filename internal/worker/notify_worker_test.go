package worker

import (
	"context"
	"testing"

	"lifeboard/internal/amqp"
	"lifeboard/internal/core"
	"lifeboard/internal/store/memory"
)

func TestNotifyWorker_HandleDueNotice(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	w := NewNotifyWorker(st)

	msg := amqp.NewDueNotice("bill_due", "bill-1", "user-1", "Rent", "2025-06-18")
	if err := w.HandleDueNotice(ctx, msg); err != nil {
		t.Fatalf("HandleDueNotice() error = %v", err)
	}

	notifications, err := st.ListNotifications(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListNotifications() error = %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}

	n := notifications[0]
	if n.Type != core.NotifyBillDue {
		t.Errorf("Type = %v, want %v", n.Type, core.NotifyBillDue)
	}
	if n.Title != "Bill due: Rent" {
		t.Errorf("Title = %q, want %q", n.Title, "Bill due: Rent")
	}
	if n.Read {
		t.Error("new notification should be unread")
	}
}

func TestNotifyWorker_DeduplicatesUnread(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	w := NewNotifyWorker(st)

	msg := amqp.NewDueNotice("bill_due", "bill-1", "user-1", "Rent", "2025-06-18")
	for i := 0; i < 3; i++ {
		if err := w.HandleDueNotice(ctx, msg); err != nil {
			t.Fatalf("HandleDueNotice() #%d error = %v", i, err)
		}
	}

	notifications, _ := st.ListNotifications(ctx, "user-1")
	if len(notifications) != 1 {
		t.Errorf("got %d notifications after redelivery, want 1", len(notifications))
	}
}

func TestNotifyWorker_ReadNotificationDoesNotBlockNewOne(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	w := NewNotifyWorker(st)

	msg := amqp.NewDueNotice("event_reminder", "event-1", "user-1", "Dentist", "2025-06-16")
	if err := w.HandleDueNotice(ctx, msg); err != nil {
		t.Fatalf("HandleDueNotice() error = %v", err)
	}

	notifications, _ := st.ListNotifications(ctx, "user-1")
	if err := st.MarkNotificationRead(ctx, notifications[0].ID); err != nil {
		t.Fatalf("MarkNotificationRead() error = %v", err)
	}

	// Once the first reminder is read, a fresh notice produces a new record
	if err := w.HandleDueNotice(ctx, msg); err != nil {
		t.Fatalf("HandleDueNotice() error = %v", err)
	}
	notifications, _ = st.ListNotifications(ctx, "user-1")
	if len(notifications) != 2 {
		t.Errorf("got %d notifications, want 2", len(notifications))
	}
}

func TestNotifyWorker_UnknownKindIsDropped(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	w := NewNotifyWorker(st)

	msg := amqp.NewDueNotice("bogus", "x", "user-1", "X", "2025-06-16")
	if err := w.HandleDueNotice(ctx, msg); err != nil {
		t.Fatalf("HandleDueNotice() with unknown kind should not error, got %v", err)
	}

	notifications, _ := st.ListNotifications(ctx, "user-1")
	if len(notifications) != 0 {
		t.Errorf("got %d notifications, want 0", len(notifications))
	}
}
