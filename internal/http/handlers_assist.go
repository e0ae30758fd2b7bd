package http

import (
	"fmt"
	"log/slog"
	"net/http"
)

type draftRequest struct {
	BillID string `json:"bill_id"`
}

type draftResponse struct {
	Text      string `json:"text"`
	Generated bool   `json:"generated"`
}

// handleDraftReminder asks the assistant for a reminder text about a bill.
// When the assistant is unavailable or fails, a plain template message is
// returned instead so the dashboard always has something to show.
func (s *Server) handleDraftReminder(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bill, err := s.store.GetBill(r.Context(), req.BillID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	fallback := fmt.Sprintf("Reminder: %s (%.2f) is due on %s.",
		bill.Name, bill.Amount.Units(), bill.DueDate.String())

	if s.drafter == nil {
		respondJSON(w, http.StatusOK, draftResponse{Text: fallback})
		return
	}

	text, err := s.drafter.DraftReminder(r.Context(), bill.Name, bill.Amount.Units(), bill.DueDate.String())
	if err != nil {
		slog.ErrorContext(r.Context(), "Draft reminder failed, using fallback",
			"bill_id", bill.ID,
			"error", err)
		respondJSON(w, http.StatusOK, draftResponse{Text: fallback})
		return
	}

	respondJSON(w, http.StatusOK, draftResponse{Text: text, Generated: true})
}
