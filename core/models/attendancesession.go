package models

import "time"

// AttendanceSession is one contiguous clock-in/clock-out interval.
// StartAt/EndAt are always UTC; normalization happens in the ingest
// adapters, never here or downstream.
type AttendanceSession struct {
	ID         int32      `gorm:"primaryKey;column:id" json:"id"`
	EmployeeID int32      `gorm:"column:employee_id;not null;index:idx_session_emp_start" json:"employeeId"`
	StartAt    time.Time  `gorm:"column:start_at;type:timestamp;not null;index:idx_session_emp_start" json:"startAt"`
	EndAt      *time.Time `gorm:"column:end_at;type:timestamp" json:"endAt"`

	Source string `gorm:"column:source;type:varchar(50)" json:"source"`
	// ExternalRef is the provider's shift id, used for idempotent re-sync.
	ExternalRef string `gorm:"column:external_ref;type:varchar(100);index" json:"externalRef"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// Open reports whether the employee is still clocked in on this session.
func (s AttendanceSession) Open() bool {
	return s.EndAt == nil
}

// Minutes returns the clocked duration in minutes, evaluating an open
// session against now. Clamped to >= 0.
func (s AttendanceSession) Minutes(now time.Time) float64 {
	end := now
	if s.EndAt != nil {
		end = *s.EndAt
	}
	m := end.Sub(s.StartAt).Minutes()
	if m < 0 {
		return 0
	}
	return m
}
