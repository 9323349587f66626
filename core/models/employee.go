package models

import "time"

type Employee struct {
	EmployeeID int32  `gorm:"primaryKey;column:employee_id" json:"employeeId"`
	Code       string `gorm:"column:code;type:varchar(50);uniqueIndex" json:"code"`
	FirstName  string `gorm:"column:first_name;type:varchar(100)" json:"firstName"`
	Surname    string `gorm:"column:surname;type:varchar(100)" json:"surname"`

	// BadgeTag links scan hardware events to the employee.
	BadgeTag      string `gorm:"column:badge_tag;type:varchar(50);index" json:"badgeTag"`
	DefaultRoleID *int32 `gorm:"column:default_role_id" json:"defaultRoleId"`
	SupervisorID  *int32 `gorm:"column:supervisor_id" json:"supervisorId"`
	Active        bool   `gorm:"column:active;not null;default:true" json:"active"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP on update CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}
