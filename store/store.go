// Package store implements the engine's storage collaborators on gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"warepulse.io/warepulse/core/models"
	"warepulse.io/warepulse/engine"
	"warepulse.io/warepulse/utils"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the ledger tables.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.Employee{},
		&models.RolePolicy{},
		&models.AttendanceSession{},
		&models.ActivityWindow{},
		&models.DailyScore{},
		&models.ShiftFlag{},
	)
}

func (s *Store) SessionsForDay(ctx context.Context, employeeID int32, day time.Time) ([]models.AttendanceSession, error) {
	dayStart, dayEnd := utils.DayBounds(day)
	var sessions []models.AttendanceSession
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND start_at >= ? AND start_at < ?", employeeID, dayStart, dayEnd).
		Order("start_at").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch attendance sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) SaveSessions(ctx context.Context, sessions []models.AttendanceSession) ([]models.AttendanceSession, error) {
	if len(sessions) == 0 {
		return nil, nil
	}
	if err := s.db.WithContext(ctx).Save(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to save attendance sessions: %w", err)
	}
	return sessions, nil
}

func (s *Store) FlagShift(ctx context.Context, flag models.ShiftFlag) error {
	if err := s.db.WithContext(ctx).Create(&flag).Error; err != nil {
		return fmt.Errorf("failed to record shift flag: %w", err)
	}
	return nil
}

func (s *Store) ShiftFlagsForDay(ctx context.Context, employeeID int32, day time.Time) ([]models.ShiftFlag, error) {
	var flags []models.ShiftFlag
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, day.Format(utils.DateLayout)).
		Find(&flags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift flags: %w", err)
	}
	return flags, nil
}

func (s *Store) FlagsForDate(ctx context.Context, day time.Time) ([]models.ShiftFlag, error) {
	var flags []models.ShiftFlag
	err := s.db.WithContext(ctx).
		Where("date = ?", day.Format(utils.DateLayout)).
		Order("created_at").
		Find(&flags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shift flags: %w", err)
	}
	return flags, nil
}

func (s *Store) GetActivityWindows(ctx context.Context, employeeID int32, day time.Time) ([]models.ActivityWindow, error) {
	dayStart, dayEnd := utils.DayBounds(day)
	var windows []models.ActivityWindow
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND start_at >= ? AND start_at < ?", employeeID, dayStart, dayEnd).
		Order("start_at").
		Find(&windows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity windows: %w", err)
	}
	return windows, nil
}

// RecordActivityWindows inserts ingested windows, ignoring rows whose
// (source, external ref) already exists. Duplicate ingestion is a normal
// stream condition, not an error.
func (s *Store) RecordActivityWindows(ctx context.Context, windows []models.ActivityWindow) (int64, error) {
	if len(windows) == 0 {
		return 0, nil
	}
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&windows)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to record activity windows: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// UpsertDailyScore replaces the full record for (employee, date). Fetch
// the existing key first and carry the primary key over so gorm writes one
// row; no partial-field update path exists.
func (s *Store) UpsertDailyScore(ctx context.Context, score models.DailyScore) error {
	var existing models.DailyScore
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", score.EmployeeID, score.Date.Format(utils.DateLayout)).
		First(&existing).Error
	if err == nil {
		score.ID = existing.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to fetch existing daily score: %w", err)
	}

	if err := s.db.WithContext(ctx).Save(&score).Error; err != nil {
		return fmt.Errorf("failed to save daily score: %w", err)
	}
	return nil
}

func (s *Store) ScoresForRange(ctx context.Context, start, end time.Time, employees []int32) ([]models.DailyScore, error) {
	query := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start.Format(utils.DateLayout), end.Format(utils.DateLayout))
	if len(employees) > 0 {
		query = query.Where("employee_id IN ?", employees)
	}

	var scores []models.DailyScore
	if err := query.Order("date, employee_id").Find(&scores).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch daily scores: %w", err)
	}
	return scores, nil
}

func (s *Store) GetRolePolicy(roleID int32) (models.RolePolicy, error) {
	var policy models.RolePolicy
	err := s.db.First(&policy, roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RolePolicy{}, fmt.Errorf("%w: %d", engine.ErrUnknownRole, roleID)
	}
	if err != nil {
		return models.RolePolicy{}, fmt.Errorf("failed to fetch role policy: %w", err)
	}
	return policy, nil
}

// LoadPolicySet reads every role policy once, for injection into a batch
// run. Explicit dependency, not a process-wide cache.
func (s *Store) LoadPolicySet(ctx context.Context) (engine.PolicySet, error) {
	var policies []models.RolePolicy
	if err := s.db.WithContext(ctx).Find(&policies).Error; err != nil {
		return nil, fmt.Errorf("failed to load role policies: %w", err)
	}
	return engine.NewPolicySet(policies), nil
}

func (s *Store) ActiveEmployeeIDs(ctx context.Context) ([]int32, error) {
	var ids []int32
	err := s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("active = ?", true).
		Pluck("employee_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active employees: %w", err)
	}
	return ids, nil
}

func (s *Store) EmployeesByID(ctx context.Context, ids []int32) (map[int32]models.Employee, error) {
	query := s.db.WithContext(ctx)
	if len(ids) > 0 {
		query = query.Where("employee_id IN ?", ids)
	}
	var employees []models.Employee
	if err := query.Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	byID := make(map[int32]models.Employee, len(employees))
	for _, e := range employees {
		byID[e.EmployeeID] = e
	}
	return byID, nil
}
