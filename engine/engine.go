// Package engine implements the attendance-activity reconciliation and
// productivity scoring core. All instants crossing into this package are
// UTC; the ingest adapters own timezone normalization and no conversion
// ever happens here.
package engine

import (
	"context"
	"errors"
	"time"

	"warepulse.io/warepulse/core/models"
)

var (
	// ErrUnknownRole is returned when a referenced role id has no policy.
	ErrUnknownRole = errors.New("unknown role id")
	// ErrInvariant indicates a logic defect (e.g. active > clocked after
	// gap math). The employee-day write must be aborted when it surfaces.
	ErrInvariant = errors.New("invariant violation")
)

// ExternalShift is one shift as reported by the time-clock provider,
// already normalized to UTC by the ingest adapter.
type ExternalShift struct {
	ExternalRef string     `json:"externalRef"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end"`
	Source      string     `json:"source"`
}

// RejectedShift is an incoming shift excluded from the day's totals,
// with the reason it was flagged.
type RejectedShift struct {
	Shift  ExternalShift `json:"shift"`
	Reason string        `json:"reason"`
}

// RejectedWindow is an activity window excluded from the computation.
type RejectedWindow struct {
	Window models.ActivityWindow `json:"window"`
	Reason string                `json:"reason"`
}

// ShiftProvider is the external time-clock collaborator.
type ShiftProvider interface {
	GetShifts(ctx context.Context, employeeID int32, day time.Time) ([]ExternalShift, error)
}

// ActivitySource is the activity-ingestion collaborator.
type ActivitySource interface {
	GetActivityWindows(ctx context.Context, employeeID int32, day time.Time) ([]models.ActivityWindow, error)
}

// AttendanceLedger is the storage collaborator for clock sessions and the
// flags written for rejected shifts.
type AttendanceLedger interface {
	SessionsForDay(ctx context.Context, employeeID int32, day time.Time) ([]models.AttendanceSession, error)
	SaveSessions(ctx context.Context, sessions []models.AttendanceSession) ([]models.AttendanceSession, error)
	FlagShift(ctx context.Context, flag models.ShiftFlag) error
	ShiftFlagsForDay(ctx context.Context, employeeID int32, day time.Time) ([]models.ShiftFlag, error)
}

// ScoreLedger is the storage collaborator for daily score records.
type ScoreLedger interface {
	UpsertDailyScore(ctx context.Context, score models.DailyScore) error
}

// PolicyRepository resolves role policies. Injected explicitly so tests
// can swap in a fixed set; never a process-wide singleton.
type PolicyRepository interface {
	GetRolePolicy(roleID int32) (models.RolePolicy, error)
}

// EmployeeDirectory lists the employees a batch run covers when no
// explicit set is given.
type EmployeeDirectory interface {
	ActiveEmployeeIDs(ctx context.Context) ([]int32, error)
}
