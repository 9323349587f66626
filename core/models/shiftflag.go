package models

import "time"

// ShiftFlag is the audit row written when the reconciler rejects an
// incoming shift. Rejected shifts are excluded from the day's totals but
// never dropped without a trace.
type ShiftFlag struct {
	ID          string     `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	EmployeeID  int32      `gorm:"column:employee_id;not null;index" json:"employeeId"`
	Date        time.Time  `gorm:"column:date;type:date;not null" json:"date"`
	ExternalRef string     `gorm:"column:external_ref;type:varchar(100)" json:"externalRef"`
	StartAt     time.Time  `gorm:"column:start_at;type:timestamp;not null" json:"startAt"`
	EndAt       *time.Time `gorm:"column:end_at;type:timestamp" json:"endAt"`
	Reason      string     `gorm:"column:reason;type:varchar(255);not null" json:"reason"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (ShiftFlag) TableName() string {
	return "shift_flags"
}
