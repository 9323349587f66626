package models

// RoleCategory determines how the idle threshold for a gap is selected.
type RoleCategory string

const (
	// RoleContinuous roles use a fixed idle threshold in minutes.
	RoleContinuous RoleCategory = "CONTINUOUS"
	// RoleBatch roles use a dynamic threshold scaled by the item count of
	// the window preceding the gap.
	RoleBatch RoleCategory = "BATCH"
)

type RolePolicy struct {
	RoleID   int32        `gorm:"primaryKey;column:role_id" json:"roleId"`
	Code     string       `gorm:"column:code;type:varchar(50);uniqueIndex" json:"code"`
	Category RoleCategory `gorm:"column:category;type:varchar(20);not null" json:"category"`

	Multiplier float64 `gorm:"column:multiplier;type:decimal(10,4);not null;default:1" json:"multiplier"`

	// ExpectedItemsPerHour is only meaningful for BATCH roles.
	ExpectedItemsPerHour float64 `gorm:"column:expected_items_per_hour;type:decimal(10,2)" json:"expectedItemsPerHour"`

	// IdleThresholdMinutes is only meaningful for CONTINUOUS roles.
	IdleThresholdMinutes float64 `gorm:"column:idle_threshold_minutes;type:decimal(10,2)" json:"idleThresholdMinutes"`
}

func (RolePolicy) TableName() string {
	return "role_policies"
}
