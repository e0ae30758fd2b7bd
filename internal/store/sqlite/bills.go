package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lifeboard/internal/core"
	"lifeboard/internal/store"
)

const billColumns = "id, name, amount_cents, due_date, category, status, recurring, frequency, notify_days_before, notes, created_by"

func scanBill(row interface{ Scan(...any) error }) (core.Bill, error) {
	var (
		b         core.Bill
		due       string
		recurring int64
	)
	err := row.Scan(&b.ID, &b.Name, &b.Amount.Cents, &due, &b.Category, &b.Status,
		&recurring, &b.Frequency, &b.NotifyDaysBefore, &b.Notes, &b.CreatedBy)
	if err != nil {
		return core.Bill{}, err
	}
	b.DueDate = parseDate(due)
	b.Recurring = recurring != 0
	return b, nil
}

func (s *Store) ListBills(ctx context.Context, owner string) ([]core.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE created_by = ? ORDER BY due_date", owner)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

func (s *Store) ListPendingBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE status = ? ORDER BY due_date", core.BillPending)
	if err != nil {
		return nil, fmt.Errorf("list pending bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

func collectBills(rows *sql.Rows) ([]core.Bill, error) {
	var out []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return out, nil
}

func (s *Store) GetBill(ctx context.Context, id string) (core.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+billColumns+" FROM bills WHERE id = ?", id)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, store.ErrNotFound
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill: %w", err)
	}
	return b, nil
}

func (s *Store) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (id, name, amount_cents, due_date, category, status, recurring, frequency, notify_days_before, notes, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.Amount.Cents, formatDate(b.DueDate), b.Category, b.Status,
		boolToInt(b.Recurring), string(b.Frequency), b.NotifyDaysBefore, b.Notes, b.CreatedBy,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill: %w", err)
	}

	slog.InfoContext(ctx, "Bill saved to SQLite",
		"bill_id", b.ID,
		"name", b.Name,
		"amount_cents", b.Amount.Cents,
		"due_date", formatDate(b.DueDate))

	return b, nil
}

func (s *Store) UpdateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bills SET name = ?, amount_cents = ?, due_date = ?, category = ?, status = ?,
		 recurring = ?, frequency = ?, notify_days_before = ?, notes = ? WHERE id = ?`,
		b.Name, b.Amount.Cents, formatDate(b.DueDate), b.Category, b.Status,
		boolToInt(b.Recurring), string(b.Frequency), b.NotifyDaysBefore, b.Notes, b.ID)
	if err != nil {
		return core.Bill{}, fmt.Errorf("update bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Bill{}, store.ErrNotFound
	}
	return s.GetBill(ctx, b.ID)
}

func (s *Store) DeleteBill(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
