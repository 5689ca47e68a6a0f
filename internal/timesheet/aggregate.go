package timesheet

import (
	"fmt"
	"time"

	"github.com/technoapex/timesheet-pro/internal"
)

// Aggregate holds the values derived from a set of entries. Week here means
// the span between the earliest and latest entry dates; entries may cover
// any range.
type Aggregate struct {
	WeekStart  time.Time
	WeekEnd    time.Time
	TotalHours float64
}

// AggregateEntries derives week boundaries and total hours from raw
// entries. Pure: no side effects, deterministic, order-insensitive.
func AggregateEntries(entries []Entry) (Aggregate, error) {
	if len(entries) == 0 {
		return Aggregate{}, internal.NewValidationError("no entries provided", internal.ErrCodeNoEntries)
	}

	var agg Aggregate
	for i, e := range entries {
		d, err := ParseEntryDate(e.Date)
		if err != nil {
			return Aggregate{}, internal.NewValidationError(
				fmt.Sprintf("entry %d: invalid date %q", i, e.Date),
				internal.ErrCodeInvalidDate,
			)
		}

		if i == 0 {
			agg.WeekStart = d
			agg.WeekEnd = d
		} else {
			if d.Before(agg.WeekStart) {
				agg.WeekStart = d
			}
			if d.After(agg.WeekEnd) {
				agg.WeekEnd = d
			}
		}

		agg.TotalHours += e.Hours
	}

	return agg, nil
}
