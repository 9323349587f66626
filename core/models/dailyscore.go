package models

import "time"

// DailyScore is the per-employee, per-day productivity record. It is
// always written as a full upsert; partial field updates would let
// items/points diverge from the time figures.
type DailyScore struct {
	ID         int32     `gorm:"primaryKey;column:id" json:"id"`
	EmployeeID int32     `gorm:"column:employee_id;not null;uniqueIndex:idx_score_emp_date" json:"employeeId"`
	Date       time.Time `gorm:"column:date;type:date;not null;uniqueIndex:idx_score_emp_date" json:"date"`

	ItemsProcessed int32   `gorm:"column:items_processed;not null" json:"itemsProcessed"`
	PointsEarned   float64 `gorm:"column:points_earned;type:decimal(12,2);not null" json:"pointsEarned"`

	ClockedMinutes float64 `gorm:"column:clocked_minutes;type:decimal(10,2);not null" json:"clockedMinutes"`
	ActiveMinutes  float64 `gorm:"column:active_minutes;type:decimal(10,2);not null" json:"activeMinutes"`
	// IdleMinutes is always clocked - active, never derived independently.
	IdleMinutes    float64 `gorm:"column:idle_minutes;type:decimal(10,2);not null" json:"idleMinutes"`
	EfficiencyRate float64 `gorm:"column:efficiency_rate;type:decimal(6,4);not null" json:"efficiencyRate"`

	ComputedAt time.Time `gorm:"column:computed_at;type:timestamp;not null" json:"computedAt"`
}

func (DailyScore) TableName() string {
	return "daily_scores"
}
