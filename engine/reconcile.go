package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"warepulse.io/warepulse/core/models"
	"warepulse.io/warepulse/utils"
)

// Rejection reasons surfaced to operators alongside flagged shifts.
const (
	ReasonEndNotAfterStart = "shift end not after start"
	ReasonOverlap          = "shift overlaps an existing session"
	ReasonSecondOpenShift  = "employee already has an open session"
)

// Reconciler merges externally-reported shifts into the attendance ledger
// for one employee-day without creating duplicates. Closed sessions are
// idempotent under re-sync; a previously-open session is closed in place
// when the provider reports its clock-out.
type Reconciler struct {
	Ledger AttendanceLedger
	// Tolerance matches an incoming shift to an existing session by start
	// instant when the provider supplies no external ref.
	Tolerance time.Duration
	Log       *slog.Logger
}

func NewReconciler(ledger AttendanceLedger, pol GapPolicy, log *slog.Logger) *Reconciler {
	return &Reconciler{
		Ledger:    ledger,
		Tolerance: pol.StartMatchTolerance,
		Log:       log.With(slog.String("component", "reconciler")),
	}
}

// trackedSession marks ledger rows that need writing after the merge.
type trackedSession struct {
	session models.AttendanceSession
	dirty   bool
}

// ReconcileAttendance applies the day's external shifts to the ledger and
// returns the valid session list plus every rejected input with its
// reason. A single bad shift never aborts the rest of the day.
func (r *Reconciler) ReconcileAttendance(ctx context.Context, employeeID int32, day time.Time, shifts []ExternalShift) ([]models.AttendanceSession, []RejectedShift, error) {
	existing, err := r.Ledger.SessionsForDay(ctx, employeeID, day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch sessions: %w", err)
	}

	accepted := make([]*trackedSession, 0, len(existing)+len(shifts))
	for _, s := range existing {
		accepted = append(accepted, &trackedSession{session: s})
	}

	incoming := make([]ExternalShift, len(shifts))
	copy(incoming, shifts)
	sort.Slice(incoming, func(i, j int) bool {
		return incoming[i].Start.Before(incoming[j].Start)
	})

	// A recompute sees the same bad shifts again; only flag ones not
	// already on record for the day.
	existingFlags, err := r.Ledger.ShiftFlagsForDay(ctx, employeeID, day)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch shift flags: %w", err)
	}
	flagged := make(map[string]bool, len(existingFlags))
	for _, f := range existingFlags {
		flagged[flagKey(f.ExternalRef, f.StartAt, f.Reason)] = true
	}

	var rejected []RejectedShift
	reject := func(shift ExternalShift, reason string) error {
		rejected = append(rejected, RejectedShift{Shift: shift, Reason: reason})
		r.Log.Warn("shift rejected",
			slog.Int("employeeId", int(employeeID)),
			slog.String("externalRef", shift.ExternalRef),
			slog.String("reason", reason))

		key := flagKey(shift.ExternalRef, shift.Start, reason)
		if flagged[key] {
			return nil
		}
		flag := models.ShiftFlag{
			ID:          uuid.NewString(),
			EmployeeID:  employeeID,
			Date:        day,
			ExternalRef: shift.ExternalRef,
			StartAt:     shift.Start,
			EndAt:       shift.End,
			Reason:      reason,
		}
		if err := r.Ledger.FlagShift(ctx, flag); err != nil {
			return fmt.Errorf("failed to flag shift: %w", err)
		}
		flagged[key] = true
		return nil
	}

	for _, shift := range incoming {
		if shift.End != nil && !shift.End.After(shift.Start) {
			if err := reject(shift, ReasonEndNotAfterStart); err != nil {
				return nil, nil, err
			}
			continue
		}

		if match := r.findMatch(accepted, shift); match != nil {
			// One physical shift, possibly re-synced: update in place,
			// never create a second row.
			if shift.End != nil && !endsEqual(match.session.EndAt, shift.End) {
				match.session.EndAt = shift.End
				match.dirty = true
			}
			if match.session.ExternalRef == "" && shift.ExternalRef != "" {
				match.session.ExternalRef = shift.ExternalRef
				match.dirty = true
			}
			continue
		}

		// An open session extends indefinitely, so it would also trip the
		// overlap check; report the more specific reason first.
		if shift.End == nil && hasOpen(accepted) {
			if err := reject(shift, ReasonSecondOpenShift); err != nil {
				return nil, nil, err
			}
			continue
		}

		if overlapsAny(accepted, shift) {
			if err := reject(shift, ReasonOverlap); err != nil {
				return nil, nil, err
			}
			continue
		}

		accepted = append(accepted, &trackedSession{
			session: models.AttendanceSession{
				EmployeeID:  employeeID,
				StartAt:     shift.Start,
				EndAt:       shift.End,
				Source:      shift.Source,
				ExternalRef: shift.ExternalRef,
			},
			dirty: true,
		})
	}

	toSave := utils.Map(
		utils.Filter(accepted, func(t *trackedSession) bool { return t.dirty }),
		func(t *trackedSession) models.AttendanceSession { return t.session })
	valid := utils.Map(
		utils.Filter(accepted, func(t *trackedSession) bool { return !t.dirty }),
		func(t *trackedSession) models.AttendanceSession { return t.session })

	if len(toSave) > 0 {
		saved, err := r.Ledger.SaveSessions(ctx, toSave)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to save sessions: %w", err)
		}
		valid = append(valid, saved...)
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].StartAt.Before(valid[j].StartAt)
	})
	return valid, rejected, nil
}

// findMatch locates the ledger row for the same physical shift: the
// external ref when the provider supplies one, otherwise a start instant
// within the tolerance window.
func (r *Reconciler) findMatch(accepted []*trackedSession, shift ExternalShift) *trackedSession {
	if shift.ExternalRef != "" {
		if match := utils.Find(accepted, func(t *trackedSession) bool {
			return t.session.ExternalRef == shift.ExternalRef
		}); match != nil {
			return *match
		}
	}
	for _, t := range accepted {
		if t.session.ExternalRef != "" && shift.ExternalRef != "" {
			continue
		}
		diff := t.session.StartAt.Sub(shift.Start)
		if diff < 0 {
			diff = -diff
		}
		if diff <= r.Tolerance {
			return t
		}
	}
	return nil
}

func overlapsAny(accepted []*trackedSession, shift ExternalShift) bool {
	for _, t := range accepted {
		if intervalsOverlap(t.session.StartAt, t.session.EndAt, shift.Start, shift.End) {
			return true
		}
	}
	return false
}

// intervalsOverlap treats a missing end as extending indefinitely.
func intervalsOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	if aEnd != nil && !aEnd.After(bStart) {
		return false
	}
	if bEnd != nil && !bEnd.After(aStart) {
		return false
	}
	return true
}

func hasOpen(accepted []*trackedSession) bool {
	for _, t := range accepted {
		if t.session.Open() {
			return true
		}
	}
	return false
}

// flagKey identifies one rejection for dedup across recomputes.
func flagKey(externalRef string, start time.Time, reason string) string {
	return fmt.Sprintf("%s|%d|%s", externalRef, start.UTC().Unix(), reason)
}

func endsEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
