package engine

import (
	"fmt"
	"time"

	"warepulse.io/warepulse/core/models"
)

// Canonical gap constants. Historical versions of this system disagreed on
// the exact values; these are the single source of truth and are only
// overridden through configuration.
const (
	DefaultEmptySessionGrace   = 10 * time.Minute
	DefaultBoundaryGrace       = 15 * time.Minute
	DefaultBatchBuffer         = 1.05
	DefaultBatchFloor          = 3 * time.Minute
	DefaultBatchThreshold      = 10 * time.Minute
	DefaultContinuousThreshold = 5 * time.Minute
	DefaultStartMatchTolerance = 5 * time.Minute
)

// GapPolicy carries every grace period and threshold constant used by the
// calculator and reconciler.
type GapPolicy struct {
	// EmptySessionGrace is subtracted from a session with no activity at
	// all before counting the rest as idle.
	EmptySessionGrace time.Duration

	// BoundaryGrace is the setup/cleanup allowance at each end of a
	// session with activity; only the excess beyond it is idle.
	BoundaryGrace time.Duration

	// BatchBuffer scales the dynamic BATCH threshold.
	BatchBuffer float64
	// BatchFloor is the minimum dynamic threshold.
	BatchFloor time.Duration
	// BatchDefault applies when a BATCH role has no usable throughput.
	BatchDefault time.Duration

	// ContinuousDefault applies when a CONTINUOUS role has no fixed
	// threshold configured.
	ContinuousDefault time.Duration

	// StartMatchTolerance is the window for matching an incoming shift to
	// an existing session by start instant when no external ref exists.
	StartMatchTolerance time.Duration
}

func DefaultGapPolicy() GapPolicy {
	return GapPolicy{
		EmptySessionGrace:   DefaultEmptySessionGrace,
		BoundaryGrace:       DefaultBoundaryGrace,
		BatchBuffer:         DefaultBatchBuffer,
		BatchFloor:          DefaultBatchFloor,
		BatchDefault:        DefaultBatchThreshold,
		ContinuousDefault:   DefaultContinuousThreshold,
		StartMatchTolerance: DefaultStartMatchTolerance,
	}
}

// GapThreshold selects the idle threshold for the gap following a window
// of the given role, per the role's category.
//
// CONTINUOUS: the role's fixed threshold.
// BATCH: itemCount x (60 / expectedItemsPerHour) x buffer, floored at
// BatchFloor; BatchDefault when the role has no usable throughput. A
// worker who just scanned a large batch is expected to be busy for the
// time physically required to process it.
func (p GapPolicy) GapThreshold(policy models.RolePolicy, itemCount int32) (time.Duration, error) {
	switch policy.Category {
	case models.RoleContinuous:
		if policy.IdleThresholdMinutes > 0 {
			return time.Duration(policy.IdleThresholdMinutes * float64(time.Minute)), nil
		}
		return p.ContinuousDefault, nil

	case models.RoleBatch:
		if policy.ExpectedItemsPerHour <= 0 {
			return p.BatchDefault, nil
		}
		minutes := float64(itemCount) * (60 / policy.ExpectedItemsPerHour) * p.BatchBuffer
		threshold := time.Duration(minutes * float64(time.Minute))
		if threshold < p.BatchFloor {
			return p.BatchFloor, nil
		}
		return threshold, nil

	default:
		return 0, fmt.Errorf("role %d has unsupported category %q", policy.RoleID, policy.Category)
	}
}

// PolicySet is a PolicyRepository backed by a map, loaded once per batch
// run or per request.
type PolicySet map[int32]models.RolePolicy

func NewPolicySet(policies []models.RolePolicy) PolicySet {
	set := make(PolicySet, len(policies))
	for _, p := range policies {
		set[p.RoleID] = p
	}
	return set
}

func (s PolicySet) GetRolePolicy(roleID int32) (models.RolePolicy, error) {
	p, ok := s[roleID]
	if !ok {
		return models.RolePolicy{}, fmt.Errorf("%w: %d", ErrUnknownRole, roleID)
	}
	return p, nil
}
