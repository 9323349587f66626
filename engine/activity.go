package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"warepulse.io/warepulse/core/models"
	"warepulse.io/warepulse/utils"
)

// ScoredWindow is an activity window with its role policy resolved, so the
// calculator needs no repository access.
type ScoredWindow struct {
	models.ActivityWindow
	Policy models.RolePolicy
}

// DayActivity is the normalized activity picture for one employee-day.
type DayActivity struct {
	// Windows are deduplicated, policy-resolved and sorted by start.
	Windows []ScoredWindow
	// ByRole groups the valid windows by role id.
	ByRole map[int32][]ScoredWindow
	// Rejected lists windows excluded from the computation with reasons.
	Rejected []RejectedWindow
}

// Aggregator fetches and normalizes activity windows for one employee-day.
// No timezone conversion happens here; the ingestion pipeline already
// normalized every instant to UTC.
type Aggregator struct {
	Source   ActivitySource
	Policies PolicyRepository
	Log      *slog.Logger
}

func NewAggregator(source ActivitySource, policies PolicyRepository, log *slog.Logger) *Aggregator {
	return &Aggregator{
		Source:   source,
		Policies: policies,
		Log:      log.With(slog.String("component", "activity")),
	}
}

// DayActivity returns the deduplicated, role-resolved windows for the day.
// Windows referencing an unknown role or carrying an invalid interval are
// excluded and reported, never silently defaulted or dropped.
func (a *Aggregator) DayActivity(ctx context.Context, employeeID int32, day time.Time) (DayActivity, error) {
	windows, err := a.Source.GetActivityWindows(ctx, employeeID, day)
	if err != nil {
		return DayActivity{}, fmt.Errorf("failed to fetch activity windows: %w", err)
	}

	result := DayActivity{ByRole: make(map[int32][]ScoredWindow)}
	seen := make(map[string]bool, len(windows))

	for _, w := range windows {
		if w.ExternalRef != "" {
			key := w.Source + "|" + w.ExternalRef
			if seen[key] {
				continue
			}
			seen[key] = true
		}

		if !w.EndAt.After(w.StartAt) {
			result.Rejected = append(result.Rejected, RejectedWindow{Window: w, Reason: "window end not after start"})
			continue
		}

		policy, err := a.Policies.GetRolePolicy(w.RoleID)
		if err != nil {
			if errors.Is(err, ErrUnknownRole) {
				a.Log.Warn("activity window references unknown role",
					slog.Int("employeeId", int(employeeID)),
					slog.Int("roleId", int(w.RoleID)),
					slog.String("externalRef", w.ExternalRef))
				result.Rejected = append(result.Rejected, RejectedWindow{Window: w, Reason: err.Error()})
				continue
			}
			return DayActivity{}, err
		}
		if policy.Category != models.RoleContinuous && policy.Category != models.RoleBatch {
			result.Rejected = append(result.Rejected, RejectedWindow{
				Window: w,
				Reason: fmt.Sprintf("role %d has unsupported category %q", policy.RoleID, policy.Category),
			})
			continue
		}

		result.Windows = append(result.Windows, ScoredWindow{ActivityWindow: w, Policy: policy})
	}

	sort.Slice(result.Windows, func(i, j int) bool {
		return result.Windows[i].StartAt.Before(result.Windows[j].StartAt)
	})
	result.ByRole = utils.GroupBy(result.Windows, func(w ScoredWindow) int32 { return w.RoleID })

	return result, nil
}
