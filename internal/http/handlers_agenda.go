package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"lifeboard/internal/core"
)

type taskRequest struct {
	Title   string `json:"title"`
	Notes   string `json:"notes"`
	Done    bool   `json:"done"`
	DueDate string `json:"due_date"`
}

type taskView struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Notes   string `json:"notes,omitempty"`
	Done    bool   `json:"done"`
	DueDate string `json:"due_date,omitempty"`
}

func taskToView(t core.Task) taskView {
	view := taskView{
		ID:    t.ID,
		Title: t.Title,
		Notes: t.Notes,
		Done:  t.Done,
	}
	if !t.DueDate.IsZero() {
		view.DueDate = t.DueDate.String()
	}
	return view
}

func (req taskRequest) toTask() (core.Task, error) {
	t := core.Task{
		Title: sanitizeInput(req.Title),
		Notes: sanitizeInput(req.Notes),
		Done:  req.Done,
	}
	if req.DueDate != "" {
		due, err := parseDateParam(req.DueDate)
		if err != nil {
			return core.Task{}, fmt.Errorf("invalid due_date: %w", err)
		}
		t.DueDate = due
	}
	return t, nil
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), s.owner(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "List tasks failed", "error", err)
		respondStoreError(w, err)
		return
	}

	views := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskToView(t))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := req.toTask()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	task.CreatedBy = s.owner(r.Context())

	if err := task.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateTask(r.Context(), task)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, taskToView(created))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := req.toTask()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	task.ID = r.PathValue("id")
	task.CreatedBy = s.owner(r.Context())

	if err := task.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateTask(r.Context(), task)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, taskToView(updated))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type eventRequest struct {
	Title            string `json:"title"`
	Date             string `json:"date"`
	Location         string `json:"location"`
	Notes            string `json:"notes"`
	RemindDaysBefore int    `json:"remind_days_before"`
}

type eventView struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Date             string `json:"date"`
	Location         string `json:"location,omitempty"`
	Notes            string `json:"notes,omitempty"`
	RemindDaysBefore int    `json:"remind_days_before"`
}

func eventToView(e core.Event) eventView {
	return eventView{
		ID:               e.ID,
		Title:            e.Title,
		Date:             e.Date.String(),
		Location:         e.Location,
		Notes:            e.Notes,
		RemindDaysBefore: e.RemindDaysBefore,
	}
}

func (req eventRequest) toEvent() (core.Event, error) {
	date, err := parseDateParam(req.Date)
	if err != nil {
		return core.Event{}, fmt.Errorf("invalid date: %w", err)
	}
	if req.RemindDaysBefore < 0 {
		return core.Event{}, fmt.Errorf("remind_days_before cannot be negative")
	}
	return core.Event{
		Title:            sanitizeInput(req.Title),
		Date:             date,
		Location:         sanitizeInput(req.Location),
		Notes:            sanitizeInput(req.Notes),
		RemindDaysBefore: req.RemindDaysBefore,
	}, nil
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(r.Context())
	events, err := s.store.ListEvents(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "List events failed", "error", err)
		respondStoreError(w, err)
		return
	}

	// Viewing the agenda acknowledges outstanding event reminders
	s.sweepNotifications(r.Context(), owner, core.NotifyEventReminder)

	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventToView(e))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := req.toEvent()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	event.CreatedBy = s.owner(r.Context())

	if err := event.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateEvent(r.Context(), event)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, eventToView(created))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := req.toEvent()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	event.ID = r.PathValue("id")
	event.CreatedBy = s.owner(r.Context())

	if err := event.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateEvent(r.Context(), event)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, eventToView(updated))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteEvent(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
