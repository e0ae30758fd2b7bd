// Package store defines the entity store contract the rest of the system
// persists through: owner-scoped listing, creation with assigned IDs, partial
// update, and deletion that fails with ErrNotFound for absent records.
package store

import (
	"context"
	"errors"

	"lifeboard/internal/core"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// BillStore persists bills.
type BillStore interface {
	ListBills(ctx context.Context, owner string) ([]core.Bill, error)
	GetBill(ctx context.Context, id string) (core.Bill, error)
	CreateBill(ctx context.Context, b core.Bill) (core.Bill, error)
	UpdateBill(ctx context.Context, b core.Bill) (core.Bill, error)
	DeleteBill(ctx context.Context, id string) error

	// ListPendingBills returns pending bills across all owners, ordered by
	// due date. Used by the due scanner.
	ListPendingBills(ctx context.Context) ([]core.Bill, error)
}

// SubscriptionStore persists subscriptions.
type SubscriptionStore interface {
	ListSubscriptions(ctx context.Context, owner string) ([]core.Subscription, error)
	GetSubscription(ctx context.Context, id string) (core.Subscription, error)
	CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
	UpdateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error)
	DeleteSubscription(ctx context.Context, id string) error
}

// NotificationStore persists notifications.
type NotificationStore interface {
	ListNotifications(ctx context.Context, userID string) ([]core.Notification, error)
	ListUnreadNotifications(ctx context.Context, userID string, typ core.NotificationType) ([]core.Notification, error)
	CreateNotification(ctx context.Context, n core.Notification) (core.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
}

// TaskStore persists tasks.
type TaskStore interface {
	ListTasks(ctx context.Context, owner string) ([]core.Task, error)
	CreateTask(ctx context.Context, t core.Task) (core.Task, error)
	UpdateTask(ctx context.Context, t core.Task) (core.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// EventStore persists calendar events.
type EventStore interface {
	ListEvents(ctx context.Context, owner string) ([]core.Event, error)
	CreateEvent(ctx context.Context, e core.Event) (core.Event, error)
	UpdateEvent(ctx context.Context, e core.Event) (core.Event, error)
	DeleteEvent(ctx context.Context, id string) error

	// ListUpcomingEvents returns events on or after the given date across
	// all owners, ordered by date. Used by the due scanner.
	ListUpcomingEvents(ctx context.Context, from core.Date) ([]core.Event, error)
}

// Store is the full persistence surface a backend must provide.
type Store interface {
	BillStore
	SubscriptionStore
	NotificationStore
	TaskStore
	EventStore

	Close() error
}
