package worker

import (
	"context"
	"fmt"
	"log/slog"

	"lifeboard/internal/amqp"
	"lifeboard/internal/core"
	"lifeboard/internal/store"
)

// NotifyWorker turns due notices from the broker into notification records.
type NotifyWorker struct {
	notifications store.NotificationStore
}

func NewNotifyWorker(notifications store.NotificationStore) *NotifyWorker {
	return &NotifyWorker{notifications: notifications}
}

// HandleDueNotice processes a single due notice. Redelivered notices are
// deduplicated against the user's unread notifications so a scanner that
// fires every hour does not pile up copies of the same reminder.
func (w *NotifyWorker) HandleDueNotice(ctx context.Context, msg *amqp.DueNotice) error {
	typ, err := noticeType(msg.Kind)
	if err != nil {
		// Unknown kinds are dropped, requeueing would loop forever
		slog.WarnContext(ctx, "Dropping due notice with unknown kind",
			"kind", msg.Kind,
			"ref_id", msg.RefID)
		return nil
	}

	title, message := noticeText(typ, msg.Name, msg.DueDate)

	unread, err := w.notifications.ListUnreadNotifications(ctx, msg.UserID, typ)
	if err != nil {
		return fmt.Errorf("list unread notifications: %w", err)
	}
	for _, n := range unread {
		if n.Title == title && n.Message == message {
			slog.DebugContext(ctx, "Skipping duplicate due notice",
				"kind", msg.Kind,
				"ref_id", msg.RefID)
			return nil
		}
	}

	created, err := w.notifications.CreateNotification(ctx, core.Notification{
		UserID:  msg.UserID,
		Type:    typ,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	slog.InfoContext(ctx, "Created notification from due notice",
		"notification_id", created.ID,
		"kind", msg.Kind,
		"ref_id", msg.RefID,
		"user_id", msg.UserID)

	return nil
}

func noticeType(kind string) (core.NotificationType, error) {
	switch kind {
	case string(core.NotifyBillDue):
		return core.NotifyBillDue, nil
	case string(core.NotifyEventReminder):
		return core.NotifyEventReminder, nil
	default:
		return "", fmt.Errorf("unknown notice kind %q", kind)
	}
}

func noticeText(typ core.NotificationType, name, dueDate string) (title, message string) {
	switch typ {
	case core.NotifyEventReminder:
		return fmt.Sprintf("Upcoming event: %s", name),
			fmt.Sprintf("%s is scheduled for %s.", name, dueDate)
	default:
		return fmt.Sprintf("Bill due: %s", name),
			fmt.Sprintf("%s is due on %s.", name, dueDate)
	}
}
