package notify

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"lifeboard/internal/core"
	"lifeboard/internal/store/memory"
)

// flakyStore wraps the memory store and fails MarkNotificationRead for
// selected IDs.
type flakyStore struct {
	*memory.Store
	mu      sync.Mutex
	failIDs map[string]bool
}

func (s *flakyStore) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	fail := s.failIDs[id]
	s.mu.Unlock()
	if fail {
		return errors.New("write conflict")
	}
	return s.Store.MarkNotificationRead(ctx, id)
}

func seedUnread(t *testing.T, st *memory.Store, userID string, typ core.NotificationType, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		created, err := st.CreateNotification(context.Background(), core.Notification{
			UserID:  userID,
			Type:    typ,
			Title:   "Bill due",
			Message: "test",
		})
		if err != nil {
			t.Fatalf("seed notification: %v", err)
		}
		ids = append(ids, created.ID)
	}
	return ids
}

func TestReconcile_MarksAllUnread(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	ids := seedUnread(t, st, "user-1", core.NotifyBillDue, 3)

	marked, err := NewReconciler(st).Reconcile(ctx, "user-1", core.NotifyBillDue)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	sort.Strings(marked)
	sort.Strings(ids)
	if len(marked) != len(ids) {
		t.Fatalf("marked %d, want %d", len(marked), len(ids))
	}
	for i := range ids {
		if marked[i] != ids[i] {
			t.Errorf("marked[%d] = %s, want %s", i, marked[i], ids[i])
		}
	}

	unread, _ := st.ListUnreadNotifications(ctx, "user-1", core.NotifyBillDue)
	if len(unread) != 0 {
		t.Errorf("%d notifications still unread", len(unread))
	}
}

func TestReconcile_PartialFailureDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	ids := seedUnread(t, st, "user-1", core.NotifyBillDue, 3)

	flaky := &flakyStore{Store: st, failIDs: map[string]bool{ids[1]: true}}

	marked, err := NewReconciler(flaky).Reconcile(ctx, "user-1", core.NotifyBillDue)
	if err != nil {
		t.Fatalf("Reconcile() error = %v, partial failures must not surface", err)
	}
	if len(marked) != 2 {
		t.Errorf("marked %d, want 2", len(marked))
	}
	for _, id := range marked {
		if id == ids[1] {
			t.Errorf("failed ID %s reported as marked", id)
		}
	}

	unread, _ := st.ListUnreadNotifications(ctx, "user-1", core.NotifyBillDue)
	if len(unread) != 1 {
		t.Errorf("%d still unread, want 1", len(unread))
	}
}

func TestReconcile_ScopedToUserAndType(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	seedUnread(t, st, "user-1", core.NotifyBillDue, 2)
	seedUnread(t, st, "user-1", core.NotifyEventReminder, 1)
	seedUnread(t, st, "user-2", core.NotifyBillDue, 1)

	marked, err := NewReconciler(st).Reconcile(ctx, "user-1", core.NotifyBillDue)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(marked) != 2 {
		t.Errorf("marked %d, want 2", len(marked))
	}

	if unread, _ := st.ListUnreadNotifications(ctx, "user-1", core.NotifyEventReminder); len(unread) != 1 {
		t.Errorf("event reminders should be untouched, %d unread", len(unread))
	}
	if unread, _ := st.ListUnreadNotifications(ctx, "user-2", core.NotifyBillDue); len(unread) != 1 {
		t.Errorf("other user's notifications should be untouched, %d unread", len(unread))
	}
}

func TestReconcile_EmptySweep(t *testing.T) {
	marked, err := NewReconciler(memory.New()).Reconcile(context.Background(), "user-1", core.NotifyBillDue)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	if len(marked) != 0 {
		t.Errorf("marked %d on empty store, want 0", len(marked))
	}
}

type brokenListStore struct {
	*memory.Store
}

func (s *brokenListStore) ListUnreadNotifications(context.Context, string, core.NotificationType) ([]core.Notification, error) {
	return nil, errors.New("connection lost")
}

func TestReconcile_FetchErrorSurfaces(t *testing.T) {
	broken := &brokenListStore{Store: memory.New()}
	_, err := NewReconciler(broken).Reconcile(context.Background(), "user-1", core.NotifyBillDue)
	if err == nil {
		t.Error("Reconcile() should surface the fetch error")
	}
}
