package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"warepulse.io/warepulse/core/models"
)

// ComputeDailyScore combines the day's activity with the calculator output
// into the full DailyScore record. The caller persists it as a whole-record
// upsert keyed by (employee, day); no field is ever updated in isolation.
func ComputeDailyScore(employeeID int32, day time.Time, activity DayActivity, idle IdleResult, now time.Time) (models.DailyScore, error) {
	if idle.ActiveMinutes > idle.ClockedMinutes {
		// Gap math can never produce this; refuse to persist a record
		// built from a logic defect.
		return models.DailyScore{}, fmt.Errorf("%w: active %.2f exceeds clocked %.2f for employee %d on %s",
			ErrInvariant, idle.ActiveMinutes, idle.ClockedMinutes, employeeID, day.Format("2006-01-02"))
	}

	var items int32
	points := decimal.Zero
	for _, w := range activity.Windows {
		items += w.ItemCount
		points = points.Add(decimal.NewFromInt32(w.ItemCount).Mul(decimal.NewFromFloat(w.Policy.Multiplier)))
	}

	efficiency := 0.0
	if idle.ClockedMinutes > 0 {
		efficiency, _ = decimal.NewFromFloat(idle.ActiveMinutes).
			Div(decimal.NewFromFloat(idle.ClockedMinutes)).
			Round(4).Float64()
	}

	pointsEarned, _ := points.Round(2).Float64()

	return models.DailyScore{
		EmployeeID:     employeeID,
		Date:           day,
		ItemsProcessed: items,
		PointsEarned:   pointsEarned,
		ClockedMinutes: idle.ClockedMinutes,
		ActiveMinutes:  idle.ActiveMinutes,
		IdleMinutes:    idle.ClockedMinutes - idle.ActiveMinutes,
		EfficiencyRate: efficiency,
		ComputedAt:     now,
	}, nil
}
