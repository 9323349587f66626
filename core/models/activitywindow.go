package models

import "time"

// ActivityWindow is one reported unit of production work. StartAt/EndAt
// are always UTC. When the source reports no end time the ingest adapter
// applies a fixed default width; the engine never invents one.
type ActivityWindow struct {
	ID         int32     `gorm:"primaryKey;column:id" json:"id"`
	EmployeeID int32     `gorm:"column:employee_id;not null;index:idx_window_emp_start" json:"employeeId"`
	RoleID     int32     `gorm:"column:role_id;not null" json:"roleId"`
	ItemCount  int32     `gorm:"column:item_count;not null" json:"itemCount"`
	StartAt    time.Time `gorm:"column:start_at;type:timestamp;not null;index:idx_window_emp_start" json:"startAt"`
	EndAt      time.Time `gorm:"column:end_at;type:timestamp;not null" json:"endAt"`

	Source      string `gorm:"column:source;type:varchar(50);uniqueIndex:idx_window_source_ref" json:"source"`
	ExternalRef string `gorm:"column:external_ref;type:varchar(100);uniqueIndex:idx_window_source_ref" json:"externalRef"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
}

func (ActivityWindow) TableName() string {
	return "activity_windows"
}
