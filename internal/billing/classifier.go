// Package billing implements the bill lifecycle engine: due-status
// classification, recurrence advancement, and monetary aggregation.
package billing

import (
	"lifeboard/internal/core"
)

// DueStatus is the derived urgency of a bill. Only pending and paid are ever
// persisted; the rest exist at read time only.
type DueStatus string

const (
	Overdue  DueStatus = "overdue"
	DueSoon  DueStatus = "due_soon"
	Upcoming DueStatus = "upcoming"
	Paid     DueStatus = "paid"
)

// Classify computes the effective urgency of a bill on a given day.
//
// A paid bill is paid no matter how old its due date. A pending bill is
// overdue once the due date is behind today, due_soon inside the inclusive
// [0, notify window] day range (a bill due today is due_soon, not overdue),
// and upcoming otherwise. Pure function of its inputs.
func Classify(b core.Bill, today core.Date) DueStatus {
	if b.Status == core.BillPaid {
		return Paid
	}
	days := today.DaysUntil(b.DueDate)
	switch {
	case days < 0:
		return Overdue
	case days <= b.NotifyWindow():
		return DueSoon
	default:
		return Upcoming
	}
}
