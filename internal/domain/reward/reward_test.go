package reward

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoints_VolumeBased(t *testing.T) {
	s := Settings{PointsPerLiter: 1, RewardMultiplier: 1}

	assert.Equal(t, int64(40), Points(40, 4000, s))
	assert.Equal(t, int64(12), Points(12.5, 1200, s))

	s = Settings{PointsPerLiter: 2, RewardMultiplier: 1.5}
	assert.Equal(t, int64(37), Points(12.5, 1200, s)) // 12.5*2*1.5 = 37.5
}

func TestPoints_FallsBackToAmount(t *testing.T) {
	s := Settings{PointsPerLiter: 1, RewardMultiplier: 1}

	// No liter reading recorded: legacy amount rule applies.
	assert.Equal(t, int64(12), Points(0, 1250, s))
	assert.Equal(t, int64(0), Points(0, 99, s))
}

func TestLegacyPoints(t *testing.T) {
	assert.Equal(t, int64(0), LegacyPoints(0))
	assert.Equal(t, int64(0), LegacyPoints(-500))
	assert.Equal(t, int64(0), LegacyPoints(99.99))
	assert.Equal(t, int64(1), LegacyPoints(100))
	assert.Equal(t, int64(5), LegacyPoints(599))
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		points int64
		tier   string
	}{
		{0, TierBronze},
		{1999, TierBronze},
		{2000, TierSilver},
		{4999, TierSilver},
		{5000, TierGold},
		{9999, TierGold},
		{10000, TierPlatinum},
		{250000, TierPlatinum},
	}
	for _, c := range cases {
		assert.Equal(t, c.tier, TierFor(c.points), "points=%d", c.points)
	}
}
