package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lifeboard/internal/core"
	"lifeboard/internal/store"
)

const subscriptionColumns = "id, vendor, amount_cents, interval, next_renewal, category, status, created_by"

func scanSubscription(row interface{ Scan(...any) error }) (core.Subscription, error) {
	var (
		s       core.Subscription
		renewal string
	)
	err := row.Scan(&s.ID, &s.Vendor, &s.Amount.Cents, &s.Interval, &renewal,
		&s.Category, &s.Status, &s.CreatedBy)
	if err != nil {
		return core.Subscription{}, err
	}
	s.NextRenewal = parseDate(renewal)
	return s, nil
}

func (s *Store) ListSubscriptions(ctx context.Context, owner string) ([]core.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE created_by = ? ORDER BY next_renewal", owner)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var out []core.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return out, nil
}

func (s *Store) GetSubscription(ctx context.Context, id string) (core.Subscription, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+subscriptionColumns+" FROM subscriptions WHERE id = ?", id)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subscription{}, store.ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub core.Subscription) (core.Subscription, error) {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscriptions (id, vendor, amount_cents, interval, next_renewal, category, status, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Vendor, sub.Amount.Cents, string(sub.Interval), formatDate(sub.NextRenewal),
		sub.Category, sub.Status, sub.CreatedBy, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return core.Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}
	return sub, nil
}

func (s *Store) UpdateSubscription(ctx context.Context, sub core.Subscription) (core.Subscription, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subscriptions SET vendor = ?, amount_cents = ?, interval = ?, next_renewal = ?,
		 category = ?, status = ? WHERE id = ?`,
		sub.Vendor, sub.Amount.Cents, string(sub.Interval), formatDate(sub.NextRenewal),
		sub.Category, sub.Status, sub.ID)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Subscription{}, store.ErrNotFound
	}
	return s.GetSubscription(ctx, sub.ID)
}

func (s *Store) DeleteSubscription(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
