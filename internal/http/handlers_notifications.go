package http

import (
	"log/slog"
	"net/http"
	"time"

	"lifeboard/internal/core"
)

type notificationView struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func notificationToView(n core.Notification) notificationView {
	return notificationView{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.store.ListNotifications(r.Context(), s.owner(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "List notifications failed", "error", err)
		respondStoreError(w, err)
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		if unreadOnly && n.Read {
			continue
		}
		views = append(views, notificationToView(n))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleReadNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkNotificationRead(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type readAllResponse struct {
	Marked []string `json:"marked"`
}

// handleReadAllNotifications sweeps the user's unread notifications of the
// given type. The sweep is best effort: items that fail to mark are logged
// by the reconciler and simply absent from the response.
func (s *Server) handleReadAllNotifications(w http.ResponseWriter, r *http.Request) {
	typ := core.NotificationType(r.URL.Query().Get("type"))
	switch typ {
	case core.NotifyBillDue, core.NotifyEventReminder:
	default:
		respondError(w, http.StatusBadRequest, "unknown notification type")
		return
	}

	marked, err := s.reconciler.Reconcile(r.Context(), s.owner(r.Context()), typ)
	if err != nil {
		slog.ErrorContext(r.Context(), "Notification sweep failed", "error", err, "type", typ)
		respondStoreError(w, err)
		return
	}
	if marked == nil {
		marked = []string{}
	}
	respondJSON(w, http.StatusOK, readAllResponse{Marked: marked})
}
