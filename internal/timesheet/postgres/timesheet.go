package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/technoapex/timesheet-pro/internal/timesheet"
	"gorm.io/gorm"
)

// timesheetRecord is the persistence shape of a timesheet row. Entries are
// stored as a JSON text column, matching the one-record-per-week access
// pattern; they are never queried individually.
type timesheetRecord struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	Client      string    `gorm:"column:client"`
	Manager     string    `gorm:"column:manager"`
	WeekStart   time.Time `gorm:"column:week_start;type:date"`
	WeekEnd     time.Time `gorm:"column:week_end;type:date"`
	TotalHours  float64   `gorm:"column:total_hours;default:0"`
	Status      string    `gorm:"column:status;default:draft"`
	EntriesJSON string    `gorm:"column:entries_json;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (timesheetRecord) TableName() string {
	return "timesheets"
}

// TimesheetRepository implements the timesheet.Repository interface using GORM
type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) Create(t *timesheet.Timesheet) error {
	rec, err := toRecord(t)
	if err != nil {
		return err
	}
	if err := r.db.Create(rec).Error; err != nil {
		return err
	}
	t.ID = rec.ID
	return nil
}

func (r *TimesheetRepository) GetByID(id int64) (*timesheet.Timesheet, error) {
	var rec timesheetRecord
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheet.ErrTimesheetNotFound
		}
		return nil, err
	}

	t, err := toDomain(&rec)
	if err != nil {
		return nil, err
	}

	// Owner email shows up as the consultant line on rendered documents.
	var email string
	row := r.db.Raw(`SELECT email FROM users WHERE id = ?`, rec.UserID).Row()
	if scanErr := row.Scan(&email); scanErr == nil {
		t.OwnerEmail = email
	} else if !errors.Is(scanErr, sql.ErrNoRows) {
		return nil, scanErr
	}

	return t, nil
}

func (r *TimesheetRepository) ListByOwner(ownerID int64) ([]*timesheet.Timesheet, error) {
	var recs []*timesheetRecord
	err := r.db.Where("user_id = ?", ownerID).
		Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	result := make([]*timesheet.Timesheet, len(recs))
	for i, rec := range recs {
		t, err := toDomain(rec)
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

func (r *TimesheetRepository) Update(t *timesheet.Timesheet) error {
	rec, err := toRecord(t)
	if err != nil {
		return err
	}
	rec.UpdatedAt = time.Now()
	return r.db.Save(rec).Error
}

// UpdateStatus updates only the status field of a timesheet
func (r *TimesheetRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&timesheetRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func toRecord(t *timesheet.Timesheet) (*timesheetRecord, error) {
	entriesJSON, err := json.Marshal(t.Entries)
	if err != nil {
		return nil, err
	}
	return &timesheetRecord{
		ID:          t.ID,
		UserID:      t.OwnerID,
		Client:      t.Client,
		Manager:     t.Manager,
		WeekStart:   t.WeekStart,
		WeekEnd:     t.WeekEnd,
		TotalHours:  t.TotalHours,
		Status:      t.Status,
		EntriesJSON: string(entriesJSON),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

func toDomain(rec *timesheetRecord) (*timesheet.Timesheet, error) {
	var entries []timesheet.Entry
	if rec.EntriesJSON != "" {
		if err := json.Unmarshal([]byte(rec.EntriesJSON), &entries); err != nil {
			return nil, err
		}
	}
	return &timesheet.Timesheet{
		ID:         rec.ID,
		OwnerID:    rec.UserID,
		Client:     rec.Client,
		Manager:    rec.Manager,
		WeekStart:  rec.WeekStart,
		WeekEnd:    rec.WeekEnd,
		TotalHours: rec.TotalHours,
		Status:     rec.Status,
		Entries:    entries,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}, nil
}
