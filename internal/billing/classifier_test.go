package billing

import (
	"testing"

	"lifeboard/internal/core"
)

func pendingBill(due core.Date, notifyDays int) core.Bill {
	return core.Bill{
		Name:             "Electric",
		Amount:           core.Money{Cents: 4500},
		DueDate:          due,
		Status:           core.BillPending,
		NotifyDaysBefore: notifyDays,
	}
}

func TestClassify(t *testing.T) {
	today := core.NewDate(2025, 6, 15)

	tests := []struct {
		name string
		bill core.Bill
		want DueStatus
	}{
		{
			name: "due yesterday is overdue",
			bill: pendingBill(core.NewDate(2025, 6, 14), -1),
			want: Overdue,
		},
		{
			name: "long past due is overdue",
			bill: pendingBill(core.NewDate(2024, 1, 1), -1),
			want: Overdue,
		},
		{
			name: "due today is due_soon, never overdue",
			bill: pendingBill(core.NewDate(2025, 6, 15), -1),
			want: DueSoon,
		},
		{
			name: "due at edge of default window",
			bill: pendingBill(core.NewDate(2025, 6, 18), -1),
			want: DueSoon,
		},
		{
			name: "due one day past default window",
			bill: pendingBill(core.NewDate(2025, 6, 19), -1),
			want: Upcoming,
		},
		{
			name: "custom window widens due_soon",
			bill: pendingBill(core.NewDate(2025, 6, 25), 10),
			want: DueSoon,
		},
		{
			name: "zero window means only the due day is due_soon",
			bill: pendingBill(core.NewDate(2025, 6, 16), 0),
			want: Upcoming,
		},
		{
			name: "zero window on the due day",
			bill: pendingBill(core.NewDate(2025, 6, 15), 0),
			want: DueSoon,
		},
		{
			name: "far future is upcoming",
			bill: pendingBill(core.NewDate(2026, 1, 1), -1),
			want: Upcoming,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.bill, today); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify_PaidWinsUnconditionally(t *testing.T) {
	today := core.NewDate(2025, 6, 15)

	dueDates := []core.Date{
		core.NewDate(2024, 1, 1),  // long overdue
		core.NewDate(2025, 6, 15), // due today
		core.NewDate(2025, 6, 17), // inside window
		core.NewDate(2026, 1, 1),  // far future
	}

	for _, due := range dueDates {
		b := pendingBill(due, -1)
		b.Status = core.BillPaid
		if got := Classify(b, today); got != Paid {
			t.Errorf("Classify(paid bill due %s) = %v, want %v", due, got, Paid)
		}
	}
}
