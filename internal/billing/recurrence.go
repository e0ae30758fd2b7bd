package billing

import (
	"fmt"
	"time"

	"lifeboard/internal/core"
)

// NextDueDate computes the due date of the occurrence that follows due for the
// given frequency: monthly +1 month, quarterly +3 months, yearly +1 year.
//
// The day of month is preserved where possible and clamped to the last valid
// day of the target month otherwise (Jan 31 monthly -> Feb 29 in leap years,
// Feb 28 elsewhere; Feb 29 yearly -> Feb 28). It computes dates only; spawning
// the next occurrence is the caller's job.
func NextDueDate(due core.Date, freq core.Frequency) (core.Date, error) {
	switch freq {
	case core.Monthly:
		return addMonthsClamped(due, 1), nil
	case core.Quarterly:
		return addMonthsClamped(due, 3), nil
	case core.Yearly:
		return addMonthsClamped(due, 12), nil
	default:
		return core.Date{}, fmt.Errorf("unknown frequency: %s", freq)
	}
}

// addMonthsClamped shifts a date by whole months without the normalization
// overflow of time.AddDate (Jan 31 + 1 month must not become Mar 2/3).
func addMonthsClamped(d core.Date, months int) core.Date {
	year := d.Year()
	month := d.Month() + months
	for month > 12 {
		month -= 12
		year++
	}

	day := d.Day()
	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}
	return core.NewDate(year, month, day)
}

func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
