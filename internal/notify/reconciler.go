// Package notify reconciles stale notifications against the state that
// produced them: once an unpaid bill has been seen or settled, its unread
// notifications are swept read.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"lifeboard/internal/core"
	"lifeboard/internal/store"
)

// Reconciler marks unread notifications read once their underlying condition
// has been observed or resolved.
type Reconciler struct {
	store store.NotificationStore
}

func NewReconciler(s store.NotificationStore) *Reconciler {
	return &Reconciler{store: s}
}

// Reconcile sweeps all unread notifications of the given type for a user,
// marking each read as an independent, unordered, best-effort task. A failed
// mark is logged and never aborts the rest of the batch. Returns the IDs that
// were successfully marked; the error covers only the initial fetch.
//
// The sweep is deliberately coarse: marking one bill paid clears every unread
// bill_due notification for the user, not just the ones matching that bill.
func (r *Reconciler) Reconcile(ctx context.Context, userID string, typ core.NotificationType) ([]string, error) {
	unread, err := r.store.ListUnreadNotifications(ctx, userID, typ)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	if len(unread) == 0 {
		return nil, nil
	}

	var (
		mu     sync.Mutex
		marked []string
	)
	var g errgroup.Group
	for _, n := range unread {
		g.Go(func() error {
			if err := r.store.MarkNotificationRead(ctx, n.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark notification read",
					"notification_id", n.ID,
					"user_id", userID,
					"type", typ,
					"error", err)
				// Best effort: the rest of the batch proceeds.
				return nil
			}
			mu.Lock()
			marked = append(marked, n.ID)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	slog.InfoContext(ctx, "Notification reconciliation complete",
		"user_id", userID,
		"type", typ,
		"unread", len(unread),
		"marked", len(marked))

	return marked, nil
}
