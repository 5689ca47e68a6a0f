package timesheet

import (
	"errors"
	"time"
)

// Entry is a single day's worked hours. The date is kept in its submitted
// form; strict parsing happens during aggregation, rendering degrades
// per-entry instead.
type Entry struct {
	Date        string  `json:"date"`
	Hours       float64 `json:"hours"`
	Description string  `json:"description"`
}

// Timesheet is a record of worked hours for one user over a date range.
// WeekStart, WeekEnd and TotalHours are derived from the entries and are
// recomputed whenever entries are set, never taken from client input.
type Timesheet struct {
	ID         int64     `json:"id"`
	OwnerID    int64     `json:"owner_id"`
	OwnerEmail string    `json:"-"`
	Client     string    `json:"client"`
	Manager    string    `json:"manager"`
	WeekStart  time.Time `json:"week_start"`
	WeekEnd    time.Time `json:"week_end"`
	TotalHours float64   `json:"total_hours"`
	Status     string    `json:"status"`
	Entries    []Entry   `json:"entries"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// Domain errors. Ownership violations surface as not-found so foreign
// record ids are indistinguishable from absent ones.
var (
	ErrTimesheetNotFound      = errors.New("timesheet not found")
	ErrInvalidTimesheetStatus = errors.New("invalid timesheet status for this operation")
)

func (t *Timesheet) CanBeApproved() bool {
	return t.Status == StatusSubmitted
}

func (t *Timesheet) CanBeRejected() bool {
	return t.Status == StatusSubmitted
}

// entryDateLayouts are accepted on input; the first is canonical.
var entryDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseEntryDate parses an entry date in any accepted layout.
func ParseEntryDate(value string) (time.Time, error) {
	for _, layout := range entryDateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, errors.New("invalid entry date: " + value)
}
