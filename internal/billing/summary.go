package billing

import (
	"github.com/shopspring/decimal"

	"lifeboard/internal/core"
)

// Bucket is the count and monetary total of one due-status partition.
type Bucket struct {
	Count int
	Total core.Money
}

// Summary partitions a bill collection by derived due status. The Classifier
// is the single source of truth for the partitioning, so these buckets can
// never diverge from per-bill classification.
type Summary struct {
	Overdue  Bucket
	DueSoon  Bucket
	Upcoming Bucket
	Paid     Bucket
}

// Count returns the number of bills across all buckets.
func (s Summary) Count() int {
	return s.Overdue.Count + s.DueSoon.Count + s.Upcoming.Count + s.Paid.Count
}

// Summarize computes per-status counts and totals over bills. Every bill
// falls in exactly one bucket; an empty partition totals zero.
func Summarize(bills []core.Bill, today core.Date) Summary {
	var s Summary
	for _, b := range bills {
		bucket := &s.Upcoming
		switch Classify(b, today) {
		case Overdue:
			bucket = &s.Overdue
		case DueSoon:
			bucket = &s.DueSoon
		case Paid:
			bucket = &s.Paid
		}
		bucket.Count++
		bucket.Total.Cents += b.Amount.Cents
	}
	return s
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount core.Money
}

// SummarizeByCategory totals bill amounts per category, in first-seen order.
// Bills without a category land under "other".
func SummarizeByCategory(bills []core.Bill) []CategoryAmount {
	index := make(map[string]int)
	var out []CategoryAmount
	for _, b := range bills {
		cat := b.Category
		if cat == "" {
			cat = "other"
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, CategoryAmount{Name: cat})
		}
		out[i].Amount.Cents += b.Amount.Cents
	}
	return out
}

// SubscriptionCosts is the normalized cost of the active subscription set.
type SubscriptionCosts struct {
	MonthlyEquivalent core.Money
	AnnualEquivalent  core.Money
	ActiveCount       int
}

// SummarizeSubscriptions computes the normalized-to-monthly cost of active
// subscriptions: sum of monthly amounts plus yearly amounts divided by 12,
// rounded to the cent; the annual equivalent is twelve monthly equivalents.
//
// Weekly and quarterly intervals are deliberately left out of the equivalents,
// matching the upstream product behavior this engine reproduces.
func SummarizeSubscriptions(subs []core.Subscription) SubscriptionCosts {
	monthly := decimal.Zero
	twelve := decimal.NewFromInt(12)

	var costs SubscriptionCosts
	for _, s := range subs {
		if s.Status != core.SubscriptionActive {
			continue
		}
		costs.ActiveCount++
		switch s.Interval {
		case core.IntervalMonthly:
			monthly = monthly.Add(decimal.NewFromInt(s.Amount.Cents))
		case core.IntervalYearly:
			monthly = monthly.Add(decimal.NewFromInt(s.Amount.Cents).Div(twelve))
		}
	}

	costs.MonthlyEquivalent = core.Money{Cents: monthly.Round(0).IntPart()}
	costs.AnnualEquivalent = core.Money{Cents: monthly.Mul(twelve).Round(0).IntPart()}
	return costs
}
