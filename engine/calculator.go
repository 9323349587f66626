package engine

import (
	"fmt"
	"sort"
	"time"

	"warepulse.io/warepulse/core/models"
)

// SessionBreakdown is the per-session slice of an IdleResult.
type SessionBreakdown struct {
	SessionID      int32     `json:"sessionId"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Open           bool      `json:"open"`
	ClockedMinutes float64   `json:"clockedMinutes"`
	ActiveMinutes  float64   `json:"activeMinutes"`
	IdleMinutes    float64   `json:"idleMinutes"`
	WindowCount    int       `json:"windowCount"`
}

// IdleResult is the calculator output for one employee-day.
// ClockedMinutes == ActiveMinutes + IdleMinutes holds exactly: idle is
// always derived as the complement, never computed independently.
type IdleResult struct {
	ClockedMinutes float64            `json:"clockedMinutes"`
	ActiveMinutes  float64            `json:"activeMinutes"`
	IdleMinutes    float64            `json:"idleMinutes"`
	Sessions       []SessionBreakdown `json:"sessions"`
}

// clippedWindow is an activity window cut to a session's boundaries. The
// original item count is kept; clipping only affects gap geometry.
type clippedWindow struct {
	start  time.Time
	end    time.Time
	items  int32
	policy models.RolePolicy
}

// ComputeActiveIdle walks the day's sessions and activity windows together
// and returns clocked, active and idle minutes. Pure function of its
// inputs: an open session is evaluated against now, so repeated calls on a
// still-clocked-in employee legitimately return increasing clocked time.
func ComputeActiveIdle(sessions []models.AttendanceSession, windows []ScoredWindow, pol GapPolicy, now time.Time) (IdleResult, error) {
	var result IdleResult

	for _, session := range sessions {
		breakdown, err := computeSession(session, windows, pol, now)
		if err != nil {
			return IdleResult{}, err
		}
		result.Sessions = append(result.Sessions, breakdown)
		result.ClockedMinutes += breakdown.ClockedMinutes
		result.ActiveMinutes += breakdown.ActiveMinutes
	}

	result.IdleMinutes = result.ClockedMinutes - result.ActiveMinutes

	if result.ActiveMinutes > result.ClockedMinutes || result.IdleMinutes < 0 {
		return IdleResult{}, fmt.Errorf("%w: active %.2f exceeds clocked %.2f",
			ErrInvariant, result.ActiveMinutes, result.ClockedMinutes)
	}
	return result, nil
}

func computeSession(session models.AttendanceSession, windows []ScoredWindow, pol GapPolicy, now time.Time) (SessionBreakdown, error) {
	start := session.StartAt
	end := now
	if session.EndAt != nil {
		end = *session.EndAt
	}
	if end.Before(start) {
		end = start
	}
	clocked := end.Sub(start)

	clipped := clipWindows(windows, start, end)

	var idle time.Duration
	if len(clipped) == 0 {
		// No scans at all: the whole session minus the setup/cleanup
		// allowance is idle.
		idle = clocked - pol.EmptySessionGrace
	} else {
		lead := clipped[0].start.Sub(start)
		idle += positive(lead - pol.BoundaryGrace)

		// Track the furthest end seen so far so that overlapping and
		// nested windows cannot manufacture idle gaps.
		last := clipped[0]
		lastEnd := clipped[0].end
		for _, w := range clipped[1:] {
			gap := w.start.Sub(lastEnd)
			if gap > 0 {
				threshold, err := pol.GapThreshold(last.policy, last.items)
				if err != nil {
					return SessionBreakdown{}, err
				}
				idle += positive(gap - threshold)
			}
			if w.end.After(lastEnd) {
				lastEnd = w.end
				last = w
			}
		}

		trail := end.Sub(lastEnd)
		idle += positive(trail - pol.BoundaryGrace)
	}

	if idle < 0 {
		idle = 0
	}
	if idle > clocked {
		idle = clocked
	}

	clockedMin := clocked.Minutes()
	idleMin := idle.Minutes()
	return SessionBreakdown{
		SessionID:      session.ID,
		Start:          start,
		End:            end,
		Open:           session.Open(),
		ClockedMinutes: clockedMin,
		ActiveMinutes:  clockedMin - idleMin,
		IdleMinutes:    idleMin,
		WindowCount:    len(clipped),
	}, nil
}

// clipWindows selects the windows overlapping [start, end], cut to the
// session boundaries and sorted by start. A window straddling a boundary
// is clipped, not excluded wholesale.
func clipWindows(windows []ScoredWindow, start, end time.Time) []clippedWindow {
	var clipped []clippedWindow
	for _, w := range windows {
		cs := w.StartAt
		if cs.Before(start) {
			cs = start
		}
		ce := w.EndAt
		if ce.After(end) {
			ce = end
		}
		if !ce.After(cs) {
			continue
		}
		clipped = append(clipped, clippedWindow{
			start:  cs,
			end:    ce,
			items:  w.ItemCount,
			policy: w.Policy,
		})
	}
	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].start.Before(clipped[j].start)
	})
	return clipped
}

func positive(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
