package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"lifeboard/internal/billing"
	"lifeboard/internal/core"
)

type billRequest struct {
	Name             string `json:"name"`
	Amount           string `json:"amount"` // decimal string, e.g. "120.50"
	DueDate          string `json:"due_date"`
	Category         string `json:"category"`
	Recurring        bool   `json:"recurring"`
	Frequency        string `json:"frequency"`
	NotifyDaysBefore *int   `json:"notify_days_before"`
	Notes            string `json:"notes"`
}

type billView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AmountCents      int64  `json:"amount_cents"`
	DueDate          string `json:"due_date"`
	Category         string `json:"category,omitempty"`
	Status           string `json:"status"`
	DueStatus        string `json:"due_status"`
	Recurring        bool   `json:"recurring"`
	Frequency        string `json:"frequency,omitempty"`
	NotifyDaysBefore int    `json:"notify_days_before"`
	Notes            string `json:"notes,omitempty"`
}

func (s *Server) billToView(b core.Bill, today core.Date) billView {
	return billView{
		ID:               b.ID,
		Name:             b.Name,
		AmountCents:      b.Amount.Cents,
		DueDate:          b.DueDate.String(),
		Category:         b.Category,
		Status:           string(b.Status),
		DueStatus:        string(billing.Classify(b, today)),
		Recurring:        b.Recurring,
		Frequency:        string(b.Frequency),
		NotifyDaysBefore: b.NotifyDaysBefore,
		Notes:            b.Notes,
	}
}

func (req billRequest) toBill() (core.Bill, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Bill{}, fmt.Errorf("invalid amount: %w", err)
	}
	due, err := parseDateParam(req.DueDate)
	if err != nil {
		return core.Bill{}, fmt.Errorf("invalid due_date: %w", err)
	}

	notify := -1
	if req.NotifyDaysBefore != nil {
		if *req.NotifyDaysBefore < 0 {
			return core.Bill{}, fmt.Errorf("notify_days_before cannot be negative")
		}
		notify = *req.NotifyDaysBefore
	}

	return core.Bill{
		Name:             sanitizeInput(req.Name),
		Amount:           core.Money{Cents: cents},
		DueDate:          due,
		Category:         sanitizeInput(req.Category),
		Recurring:        req.Recurring,
		Frequency:        core.Frequency(req.Frequency),
		NotifyDaysBefore: notify,
		Notes:            sanitizeInput(req.Notes),
	}, nil
}

func parseDateParam(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(r.Context())
	bills, err := s.bills.ListBills(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "List bills failed", "error", err)
		respondStoreError(w, err)
		return
	}

	// Viewing the bill list acknowledges outstanding bill_due notifications
	s.sweepNotifications(r.Context(), owner, core.NotifyBillDue)

	today := s.bills.Today()
	filter := r.URL.Query().Get("due_status")

	views := make([]billView, 0, len(bills))
	for _, b := range bills {
		v := s.billToView(b, today)
		if filter != "" && v.DueStatus != filter {
			continue
		}
		views = append(views, v)
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	b, err := s.store.GetBill(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, s.billToView(b, s.bills.Today()))
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bill, err := req.toBill()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	bill.CreatedBy = s.owner(r.Context())

	created, err := s.bills.CreateBill(r.Context(), bill)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSummary(created.CreatedBy)
	respondJSON(w, http.StatusCreated, s.billToView(created, s.bills.Today()))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	existing, err := s.store.GetBill(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bill, err := req.toBill()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	bill.ID = existing.ID
	bill.Status = existing.Status
	bill.CreatedBy = existing.CreatedBy
	if req.NotifyDaysBefore == nil {
		bill.NotifyDaysBefore = existing.NotifyDaysBefore
	}

	updated, err := s.bills.UpdateBill(r.Context(), bill)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.invalidateSummary(updated.CreatedBy)
	respondJSON(w, http.StatusOK, s.billToView(updated, s.bills.Today()))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.bills.DeleteBill(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateSummary(s.owner(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

type payResponse struct {
	Paid billView  `json:"paid"`
	Next *billView `json:"next,omitempty"`
}

func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	paid, next, err := s.bills.MarkPaid(r.Context(), r.PathValue("id"))
	if errors.Is(err, billing.ErrAlreadyPaid) {
		respondError(w, http.StatusConflict, "bill already paid")
		return
	}
	if err != nil {
		respondStoreError(w, err)
		return
	}

	today := s.bills.Today()
	resp := payResponse{Paid: s.billToView(paid, today)}
	if next != nil {
		v := s.billToView(*next, today)
		resp.Next = &v
	}

	s.invalidateSummary(paid.CreatedBy)
	respondJSON(w, http.StatusOK, resp)
}

type bucketView struct {
	Count      int   `json:"count"`
	TotalCents int64 `json:"total_cents"`
}

type categoryView struct {
	Name       string `json:"name"`
	TotalCents int64  `json:"total_cents"`
}

type summaryResponse struct {
	Date       string         `json:"date"`
	Overdue    bucketView     `json:"overdue"`
	DueSoon    bucketView     `json:"due_soon"`
	Upcoming   bucketView     `json:"upcoming"`
	Paid       bucketView     `json:"paid"`
	ByCategory []categoryView `json:"by_category"`
}

func toBucketView(b billing.Bucket) bucketView {
	return bucketView{Count: b.Count, TotalCents: b.Total.Cents}
}

func (s *Server) handleBillSummary(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(r.Context())
	today := s.bills.Today()
	key := owner + ":" + today.String()

	if cached, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "user_id", owner)
		respondJSON(w, http.StatusOK, cached)
		return
	}

	bills, err := s.bills.ListBills(r.Context(), owner)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary list failed", "error", err)
		respondStoreError(w, err)
		return
	}

	summary := billing.Summarize(bills, today)
	resp := summaryResponse{
		Date:       today.String(),
		Overdue:    toBucketView(summary.Overdue),
		DueSoon:    toBucketView(summary.DueSoon),
		Upcoming:   toBucketView(summary.Upcoming),
		Paid:       toBucketView(summary.Paid),
		ByCategory: make([]categoryView, 0),
	}
	for _, c := range billing.SummarizeByCategory(bills) {
		resp.ByCategory = append(resp.ByCategory, categoryView{Name: c.Name, TotalCents: c.Amount.Cents})
	}

	s.summaryCache.Set(key, resp)
	respondJSON(w, http.StatusOK, resp)
}

// invalidateSummary drops any cached summaries for the user. The key embeds
// the date, so only today's entry can actually be live.
func (s *Server) invalidateSummary(owner string) {
	s.summaryCache.Delete(owner + ":" + s.bills.Today().String())
}
