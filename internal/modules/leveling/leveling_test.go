package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForXP_Thresholds(t *testing.T) {
	tests := []struct {
		xp       int
		name     string
		next     int
		progress int
	}{
		{0, "Bronze", 150, 0},
		{75, "Bronze", 150, 50},
		{149, "Bronze", 150, 99},
		{150, "Silver", 400, 0},
		{399, "Silver", 400, 99},
		{400, "Gold", 800, 0},
		{800, "Platinum", 1500, 0},
		{1499, "Platinum", 1500, 99},
	}
	for _, tt := range tests {
		info := ForXP(tt.xp)
		assert.Equal(t, tt.name, info.Name, "xp=%d", tt.xp)
		require.NotNil(t, info.NextThreshold, "xp=%d", tt.xp)
		assert.Equal(t, tt.next, *info.NextThreshold, "xp=%d", tt.xp)
		assert.Equal(t, tt.progress, info.Progress, "xp=%d", tt.xp)
	}
}

func TestForXP_TopLevel(t *testing.T) {
	for _, xp := range []int{1500, 1501, 99999} {
		info := ForXP(xp)
		assert.Equal(t, "Legend", info.Name)
		assert.Nil(t, info.NextThreshold)
		assert.Equal(t, 100, info.Progress)
	}
}

func TestForXP_ProgressBounds(t *testing.T) {
	for xp := 0; xp <= 2000; xp++ {
		info := ForXP(xp)
		assert.GreaterOrEqual(t, info.Progress, 0, "xp=%d", xp)
		assert.LessOrEqual(t, info.Progress, 100, "xp=%d", xp)
	}
}

func TestForXP_NegativeClamped(t *testing.T) {
	info := ForXP(-10)
	assert.Equal(t, "Bronze", info.Name)
	assert.Equal(t, 0, info.Progress)
}
