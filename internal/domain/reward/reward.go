// Package reward holds the pure loyalty arithmetic: point accrual formulas
// and tier classification. Nothing here touches storage.
package reward

import "math"

// Tier thresholds, in points.
const (
	SilverThreshold   = 2000
	GoldThreshold     = 5000
	PlatinumThreshold = 10000
)

// Tier labels.
const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// Settings are the station-wide accrual knobs.
type Settings struct {
	PointsPerLiter   float64
	RewardMultiplier float64
}

// Points computes reward points for a fuel sale. Volume-based accrual when
// the liter count is known; otherwise the legacy amount-based rule.
// Computed once at transaction creation and persisted: later settings changes
// never alter stored values.
func Points(liters, amount float64, s Settings) int64 {
	if liters > 0 {
		return int64(math.Floor(liters * s.PointsPerLiter * s.RewardMultiplier))
	}
	return LegacyPoints(amount)
}

// LegacyPoints is the original amount-based rule: one point per 100 spent,
// rounded down. Still used when aggregating ledger rows that predate
// volume-based accrual (no stored reward_points).
func LegacyPoints(amount float64) int64 {
	if amount <= 0 {
		return 0
	}
	return int64(math.Floor(amount / 100))
}

// TierFor classifies cumulative points into a tier label. Pure and monotonic:
// the label changes exactly at the thresholds.
func TierFor(points int64) string {
	switch {
	case points >= PlatinumThreshold:
		return TierPlatinum
	case points >= GoldThreshold:
		return TierGold
	case points >= SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}
