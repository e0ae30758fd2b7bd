package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lifeboard/internal/core"
	"lifeboard/internal/store"
)

func (s *Store) ListTasks(ctx context.Context, owner string) ([]core.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, notes, done, due_date, created_by FROM tasks WHERE created_by = ? ORDER BY created_at DESC", owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []core.Task
	for rows.Next() {
		var (
			t    core.Task
			done int64
			due  string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Notes, &done, &due, &t.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Done = done != 0
		t.DueDate = parseDate(due)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return out, nil
}

func (s *Store) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, notes, done, due_date, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Notes, boolToInt(t.Done), formatDate(t.DueDate), t.CreatedBy,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return core.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTask(ctx context.Context, t core.Task) (core.Task, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET title = ?, notes = ?, done = ?, due_date = ? WHERE id = ?",
		t.Title, t.Notes, boolToInt(t.Done), formatDate(t.DueDate), t.ID)
	if err != nil {
		return core.Task{}, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Task{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

const eventColumns = "id, title, date, location, notes, remind_days_before, created_by"

func scanEvent(rows *sql.Rows) (core.Event, error) {
	var (
		e    core.Event
		date string
	)
	if err := rows.Scan(&e.ID, &e.Title, &date, &e.Location, &e.Notes, &e.RemindDaysBefore, &e.CreatedBy); err != nil {
		return core.Event{}, err
	}
	e.Date = parseDate(date)
	return e, nil
}

func (s *Store) ListEvents(ctx context.Context, owner string) ([]core.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE created_by = ? ORDER BY date", owner)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (s *Store) ListUpcomingEvents(ctx context.Context, from core.Date) ([]core.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE date >= ? ORDER BY date", formatDate(from))
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]core.Event, error) {
	var out []core.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}

func (s *Store) CreateEvent(ctx context.Context, e core.Event) (core.Event, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, title, date, location, notes, remind_days_before, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, formatDate(e.Date), e.Location, e.Notes, e.RemindDaysBefore, e.CreatedBy,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return core.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

func (s *Store) UpdateEvent(ctx context.Context, e core.Event) (core.Event, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE events SET title = ?, date = ?, location = ?, notes = ?, remind_days_before = ? WHERE id = ?",
		e.Title, formatDate(e.Date), e.Location, e.Notes, e.RemindDaysBefore, e.ID)
	if err != nil {
		return core.Event{}, fmt.Errorf("update event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Event{}, store.ErrNotFound
	}
	return e, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
