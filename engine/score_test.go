package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"warepulse.io/warepulse/core/models"
)

func TestComputeDailyScore(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	now := day(15, 0)

	activity := DayActivity{
		Windows: []ScoredWindow{
			window(pickerPolicy, day(8, 0), day(10, 0), 100),
			window(packerPolicy, day(10, 0), day(12, 0), 40),
		},
	}
	idle := IdleResult{ClockedMinutes: 480, ActiveMinutes: 420, IdleMinutes: 60}

	score, err := ComputeDailyScore(7, date, activity, idle, now)
	require.NoError(t, err)

	assert.Equal(t, int32(7), score.EmployeeID)
	assert.Equal(t, date, score.Date)
	assert.Equal(t, int32(140), score.ItemsProcessed)
	// 100 x 1.0 + 40 x 1.5
	assert.Equal(t, 160.0, score.PointsEarned)
	assert.Equal(t, 480.0, score.ClockedMinutes)
	assert.Equal(t, 420.0, score.ActiveMinutes)
	assert.Equal(t, 60.0, score.IdleMinutes)
	assert.Equal(t, 0.875, score.EfficiencyRate)
	assert.Equal(t, now, score.ComputedAt)
}

func TestComputeDailyScoreRounding(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	policy := models.RolePolicy{RoleID: 3, Category: models.RoleBatch, Multiplier: 0.333}

	activity := DayActivity{
		Windows: []ScoredWindow{window(policy, day(8, 0), day(9, 0), 10)},
	}
	idle := IdleResult{ClockedMinutes: 61, ActiveMinutes: 60}

	score, err := ComputeDailyScore(7, date, activity, idle, day(15, 0))
	require.NoError(t, err)

	// 10 x 0.333 = 3.33, held at two decimals.
	assert.Equal(t, 3.33, score.PointsEarned)
	// 60 / 61, held at four decimals.
	assert.Equal(t, 0.9836, score.EfficiencyRate)
}

func TestComputeDailyScoreNoAttendance(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	// Scans without a single clock-in still earn items and points; the
	// time figures stay zero rather than dividing by nothing.
	activity := DayActivity{
		Windows: []ScoredWindow{window(pickerPolicy, day(8, 0), day(9, 0), 25)},
	}

	score, err := ComputeDailyScore(7, date, activity, IdleResult{}, day(15, 0))
	require.NoError(t, err)
	assert.Equal(t, int32(25), score.ItemsProcessed)
	assert.Equal(t, 25.0, score.PointsEarned)
	assert.Equal(t, 0.0, score.ClockedMinutes)
	assert.Equal(t, 0.0, score.EfficiencyRate)
}

func TestComputeDailyScoreInvariant(t *testing.T) {
	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	idle := IdleResult{ClockedMinutes: 60, ActiveMinutes: 90}

	_, err := ComputeDailyScore(7, date, DayActivity{}, idle, day(15, 0))
	assert.ErrorIs(t, err, ErrInvariant)
}
