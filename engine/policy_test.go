package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"warepulse.io/warepulse/core/models"
)

func TestGapThreshold(t *testing.T) {
	pol := DefaultGapPolicy()

	tests := []struct {
		name      string
		policy    models.RolePolicy
		itemCount int32
		expected  time.Duration
	}{
		{
			name:      "Continuous with fixed threshold",
			policy:    models.RolePolicy{RoleID: 1, Category: models.RoleContinuous, IdleThresholdMinutes: 7},
			itemCount: 100,
			expected:  7 * time.Minute,
		},
		{
			name:      "Continuous without threshold falls back to default",
			policy:    models.RolePolicy{RoleID: 1, Category: models.RoleContinuous},
			itemCount: 100,
			expected:  DefaultContinuousThreshold,
		},
		{
			name:      "Batch scales with item count",
			policy:    models.RolePolicy{RoleID: 2, Category: models.RoleBatch, ExpectedItemsPerHour: 60},
			itemCount: 20,
			// 20 items x 1 min/item x 1.05 buffer
			expected: 21 * time.Minute,
		},
		{
			name:      "Batch small count clamps to floor",
			policy:    models.RolePolicy{RoleID: 2, Category: models.RoleBatch, ExpectedItemsPerHour: 120},
			itemCount: 1,
			expected:  DefaultBatchFloor,
		},
		{
			name:      "Batch zero items clamps to floor",
			policy:    models.RolePolicy{RoleID: 2, Category: models.RoleBatch, ExpectedItemsPerHour: 60},
			itemCount: 0,
			expected:  DefaultBatchFloor,
		},
		{
			name:      "Batch without throughput falls back to default",
			policy:    models.RolePolicy{RoleID: 2, Category: models.RoleBatch},
			itemCount: 50,
			expected:  DefaultBatchThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pol.GapThreshold(tt.policy, tt.itemCount)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGapThresholdUnsupportedCategory(t *testing.T) {
	pol := DefaultGapPolicy()
	_, err := pol.GapThreshold(models.RolePolicy{RoleID: 9, Category: "SEASONAL"}, 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SEASONAL")
}

func TestPolicySet(t *testing.T) {
	set := NewPolicySet([]models.RolePolicy{
		{RoleID: 1, Code: "PICK", Category: models.RoleContinuous},
		{RoleID: 2, Code: "PACK", Category: models.RoleBatch},
	})

	p, err := set.GetRolePolicy(2)
	assert.NoError(t, err)
	assert.Equal(t, "PACK", p.Code)

	_, err = set.GetRolePolicy(99)
	assert.ErrorIs(t, err, ErrUnknownRole)
}
