package billing

import (
	"testing"

	"lifeboard/internal/core"
)

func TestNextDueDate(t *testing.T) {
	tests := []struct {
		name string
		due  core.Date
		freq core.Frequency
		want core.Date
	}{
		{
			name: "monthly mid-month",
			due:  core.NewDate(2025, 6, 15),
			freq: core.Monthly,
			want: core.NewDate(2025, 7, 15),
		},
		{
			name: "monthly jan 31 clamps to leap feb 29",
			due:  core.NewDate(2024, 1, 31),
			freq: core.Monthly,
			want: core.NewDate(2024, 2, 29),
		},
		{
			name: "monthly jan 31 clamps to feb 28 off leap years",
			due:  core.NewDate(2025, 1, 31),
			freq: core.Monthly,
			want: core.NewDate(2025, 2, 28),
		},
		{
			name: "monthly march 31 clamps to april 30",
			due:  core.NewDate(2025, 3, 31),
			freq: core.Monthly,
			want: core.NewDate(2025, 4, 30),
		},
		{
			name: "monthly december rolls year",
			due:  core.NewDate(2025, 12, 10),
			freq: core.Monthly,
			want: core.NewDate(2026, 1, 10),
		},
		{
			name: "quarterly",
			due:  core.NewDate(2025, 2, 5),
			freq: core.Quarterly,
			want: core.NewDate(2025, 5, 5),
		},
		{
			name: "quarterly november rolls year",
			due:  core.NewDate(2025, 11, 30),
			freq: core.Quarterly,
			want: core.NewDate(2026, 2, 28),
		},
		{
			name: "yearly",
			due:  core.NewDate(2025, 6, 15),
			freq: core.Yearly,
			want: core.NewDate(2026, 6, 15),
		},
		{
			name: "yearly feb 29 clamps to feb 28",
			due:  core.NewDate(2024, 2, 29),
			freq: core.Yearly,
			want: core.NewDate(2025, 2, 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDueDate(tt.due, tt.freq)
			if err != nil {
				t.Fatalf("NextDueDate() error = %v", err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("NextDueDate(%s, %s) = %s, want %s", tt.due, tt.freq, got, tt.want)
			}
		})
	}
}

func TestNextDueDate_UnknownFrequency(t *testing.T) {
	_, err := NextDueDate(core.NewDate(2025, 6, 15), "daily")
	if err == nil {
		t.Error("NextDueDate() should reject an unknown frequency")
	}
}
