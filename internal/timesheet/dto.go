package timesheet

import (
	"time"

	"github.com/technoapex/timesheet-pro/internal"
)

// CreateTimesheetDTO represents the request payload for creating a timesheet
type CreateTimesheetDTO struct {
	Client  string  `json:"client"`
	Manager string  `json:"manager"`
	Entries []Entry `json:"entries"`
}

// Validate checks the payload shape; date parsing is the aggregator's job.
func (dto CreateTimesheetDTO) Validate() error {
	if len(dto.Entries) == 0 {
		return internal.NewValidationError("no entries provided", internal.ErrCodeNoEntries)
	}
	for _, e := range dto.Entries {
		if e.Hours < 0 {
			return internal.NewValidationFieldError(
				"entries",
				"entry hours cannot be negative",
				internal.ErrCodeInvalidHours,
			)
		}
	}
	return nil
}

// Summary is the list projection of a timesheet.
type Summary struct {
	ID         int64   `json:"id"`
	WeekStart  string  `json:"week_start"`
	WeekEnd    string  `json:"week_end"`
	TotalHours float64 `json:"total_hours"`
	Status     string  `json:"status"`
}

// Detail is the full API shape of a timesheet record.
type Detail struct {
	ID         int64   `json:"id"`
	Client     string  `json:"client"`
	Manager    string  `json:"manager"`
	WeekStart  string  `json:"week_start"`
	WeekEnd    string  `json:"week_end"`
	TotalHours float64 `json:"total_hours"`
	Status     string  `json:"status"`
	Entries    []Entry `json:"entries"`
}

func ToSummary(t *Timesheet) Summary {
	return Summary{
		ID:         t.ID,
		WeekStart:  t.WeekStart.Format(time.DateOnly),
		WeekEnd:    t.WeekEnd.Format(time.DateOnly),
		TotalHours: t.TotalHours,
		Status:     t.Status,
	}
}

func ToDetail(t *Timesheet) Detail {
	return Detail{
		ID:         t.ID,
		Client:     t.Client,
		Manager:    t.Manager,
		WeekStart:  t.WeekStart.Format(time.DateOnly),
		WeekEnd:    t.WeekEnd.Format(time.DateOnly),
		TotalHours: t.TotalHours,
		Status:     t.Status,
		Entries:    t.Entries,
	}
}
