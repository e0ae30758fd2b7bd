package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"lifeboard/internal/billing"
	"lifeboard/internal/core"
)

type subscriptionRequest struct {
	Vendor      string `json:"vendor"`
	Amount      string `json:"amount"`
	Interval    string `json:"interval"`
	NextRenewal string `json:"next_renewal"`
	Category    string `json:"category"`
	Status      string `json:"status"`
}

type subscriptionView struct {
	ID          string `json:"id"`
	Vendor      string `json:"vendor"`
	AmountCents int64  `json:"amount_cents"`
	Interval    string `json:"interval"`
	NextRenewal string `json:"next_renewal,omitempty"`
	Category    string `json:"category,omitempty"`
	Status      string `json:"status"`
}

func subscriptionToView(sub core.Subscription) subscriptionView {
	view := subscriptionView{
		ID:          sub.ID,
		Vendor:      sub.Vendor,
		AmountCents: sub.Amount.Cents,
		Interval:    string(sub.Interval),
		Category:    sub.Category,
		Status:      string(sub.Status),
	}
	if !sub.NextRenewal.IsZero() {
		view.NextRenewal = sub.NextRenewal.String()
	}
	return view
}

func (req subscriptionRequest) toSubscription() (core.Subscription, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("invalid amount: %w", err)
	}

	sub := core.Subscription{
		Vendor:   sanitizeInput(req.Vendor),
		Amount:   core.Money{Cents: cents},
		Interval: core.Interval(req.Interval),
		Category: sanitizeInput(req.Category),
		Status:   core.SubscriptionStatus(req.Status),
	}
	if sub.Status == "" {
		sub.Status = core.SubscriptionActive
	}
	if req.NextRenewal != "" {
		renewal, err := parseDateParam(req.NextRenewal)
		if err != nil {
			return core.Subscription{}, fmt.Errorf("invalid next_renewal: %w", err)
		}
		sub.NextRenewal = renewal
	}
	return sub, nil
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.store.ListSubscriptions(r.Context(), s.owner(r.Context()))
	if err != nil {
		slog.ErrorContext(r.Context(), "List subscriptions failed", "error", err)
		respondStoreError(w, err)
		return
	}

	views := make([]subscriptionView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, subscriptionToView(sub))
	}
	respondJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := req.toSubscription()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sub.CreatedBy = s.owner(r.Context())

	if err := sub.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.store.CreateSubscription(r.Context(), sub)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	s.invalidateCosts(created.CreatedBy)
	respondJSON(w, http.StatusCreated, subscriptionToView(created))
}

func (s *Server) handleUpdateSubscription(w http.ResponseWriter, r *http.Request) {
	existing, err := s.store.GetSubscription(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, err)
		return
	}

	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := req.toSubscription()
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	sub.ID = existing.ID
	sub.CreatedBy = existing.CreatedBy

	if err := sub.Validate(); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	updated, err := s.store.UpdateSubscription(r.Context(), sub)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	s.invalidateCosts(updated.CreatedBy)
	respondJSON(w, http.StatusOK, subscriptionToView(updated))
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSubscription(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, err)
		return
	}
	s.invalidateCosts(s.owner(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

type costsResponse struct {
	MonthlyEquivalentCents int64 `json:"monthly_equivalent_cents"`
	AnnualEquivalentCents  int64 `json:"annual_equivalent_cents"`
	ActiveCount            int   `json:"active_count"`
}

func (s *Server) handleSubscriptionCosts(w http.ResponseWriter, r *http.Request) {
	owner := s.owner(r.Context())

	costs, found := s.costsCache.Get(owner)
	if !found {
		subs, err := s.store.ListSubscriptions(r.Context(), owner)
		if err != nil {
			slog.ErrorContext(r.Context(), "Subscription costs failed", "error", err)
			respondStoreError(w, err)
			return
		}
		costs = billing.SummarizeSubscriptions(subs)
		s.costsCache.Set(owner, costs)
	}

	respondJSON(w, http.StatusOK, costsResponse{
		MonthlyEquivalentCents: costs.MonthlyEquivalent.Cents,
		AnnualEquivalentCents:  costs.AnnualEquivalent.Cents,
		ActiveCount:            costs.ActiveCount,
	})
}

func (s *Server) invalidateCosts(owner string) {
	s.costsCache.Delete(owner)
}
