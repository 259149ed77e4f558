package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dts-gxu/JobTracker/internal/models"
)

// ApplicationStore persists job-application records. Every operation takes
// the owning user's id explicitly and scopes its queries to it.
type ApplicationStore struct {
	db *gorm.DB
}

func NewApplicationStore(db *gorm.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

// ApplicationInput carries raw form values. Dates stay strings here; parsing
// rules differ between the create and update flows.
type ApplicationInput struct {
	CompanyName   string
	PositionName  string
	ApplyDate     string // YYYY-MM-DD
	Status        string
	Notes         string
	SalaryMin     *int
	SalaryMax     *int
	WorkLocation  string
	ApplyChannel  string
	Referrer      string
	InterviewTime string // 2006-01-02T15:04, blank for none
}

// Create stores a new record for the user. Company and position are
// required. A missing or unparsable apply date deliberately falls back to
// today, and an unknown status label falls back to the default stage, so the
// add flow never fails on those fields.
func (s *ApplicationStore) Create(userID uint, in ApplicationInput) (*models.Application, error) {
	if in.CompanyName == "" || in.PositionName == "" {
		return nil, validationErr("application", "company name and position name are required")
	}

	applyDate := time.Now()
	if in.ApplyDate != "" {
		if t, err := time.Parse(models.DateLayout, in.ApplyDate); err == nil {
			applyDate = t
		}
	}

	status := models.DefaultStatus
	if in.Status != "" {
		if st, err := models.ParseStatus(in.Status); err == nil {
			status = st
		}
	}

	channel, err := models.ParseChannel(in.ApplyChannel)
	if err != nil {
		return nil, validationErr("apply_channel", "unknown application channel")
	}

	interview, err := parseInterview(in.InterviewTime)
	if err != nil {
		return nil, validationErr("interview_time", "invalid interview time format")
	}

	app := &models.Application{
		UserID:        userID,
		CompanyName:   in.CompanyName,
		PositionName:  in.PositionName,
		ApplyDate:     applyDate,
		Status:        status,
		Notes:         in.Notes,
		SalaryMin:     in.SalaryMin,
		SalaryMax:     in.SalaryMax,
		WorkLocation:  in.WorkLocation,
		ApplyChannel:  channel,
		Referrer:      in.Referrer,
		InterviewTime: interview,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(app).Error
	}); err != nil {
		return nil, err
	}
	return app, nil
}

// ListForUser returns the user's records, most recent first. A status filter
// matches exactly on the raw value, so an unknown label matches nothing; a
// search query substring-matches company or position.
func (s *ApplicationStore) ListForUser(userID uint, statusFilter, searchQuery string) ([]models.Application, error) {
	q := s.db.Where("user_id = ?", userID)

	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}
	if searchQuery != "" {
		like := "%" + searchQuery + "%"
		q = q.Where("company_name LIKE ? OR position_name LIKE ?", like, like)
	}

	var apps []models.Application
	if err := q.Order("created_at DESC, id DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Get fetches one record by id and owner. A record that exists but belongs
// to someone else reports ErrNotFound, same as a missing one.
func (s *ApplicationStore) Get(userID, id uint) (*models.Application, error) {
	var app models.Application
	if err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// Update rewrites an owned record. Unlike the create flow this is strict:
// company, position and apply date are all required, and date, status and
// channel values that do not parse are rejected.
func (s *ApplicationStore) Update(userID, id uint, in ApplicationInput) (*models.Application, error) {
	if in.CompanyName == "" || in.PositionName == "" || in.ApplyDate == "" {
		return nil, validationErr("application", "company name, position name and apply date are required")
	}

	applyDate, err := time.Parse(models.DateLayout, in.ApplyDate)
	if err != nil {
		return nil, validationErr("apply_date", "invalid date format, expected YYYY-MM-DD")
	}

	status, err := models.ParseStatus(in.Status)
	if err != nil {
		return nil, validationErr("status", "unknown status")
	}

	channel, err := models.ParseChannel(in.ApplyChannel)
	if err != nil {
		return nil, validationErr("apply_channel", "unknown application channel")
	}

	interview, err := parseInterview(in.InterviewTime)
	if err != nil {
		return nil, validationErr("interview_time", "invalid interview time format")
	}

	var app models.Application
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		app.CompanyName = in.CompanyName
		app.PositionName = in.PositionName
		app.ApplyDate = applyDate
		app.Status = status
		app.Notes = in.Notes
		app.SalaryMin = in.SalaryMin
		app.SalaryMax = in.SalaryMax
		app.WorkLocation = in.WorkLocation
		app.ApplyChannel = channel
		app.Referrer = in.Referrer
		app.InterviewTime = interview

		// Save refreshes UpdatedAt
		return tx.Save(&app).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Delete permanently removes an owned record and returns it so callers can
// name what was deleted. Non-owned and nonexistent ids leave the store
// unchanged and report ErrNotFound.
func (s *ApplicationStore) Delete(userID, id uint) (*models.Application, error) {
	var app models.Application
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(&app).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Stats holds per-status counts for one user.
type Stats struct {
	Total    int
	ByStatus map[models.Status]int
}

// Stats recomputes the counts from the application set on every call; every
// fixed status label is present even at zero.
func (s *ApplicationStore) Stats(userID uint) (*Stats, error) {
	var rows []struct {
		Status models.Status
		N      int
	}
	if err := s.db.Model(&models.Application{}).
		Select("status, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: make(map[models.Status]int, len(models.StatusOptions()))}
	for _, st := range models.StatusOptions() {
		stats.ByStatus[st] = 0
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.N
		stats.Total += r.N
	}
	return stats, nil
}

func parseInterview(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(models.InterviewInputLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
