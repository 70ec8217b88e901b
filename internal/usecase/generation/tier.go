package generation

import "github.com/minhducdev/clipforge/internal/domain/entities"

// LimitsFor maps a subscription tier to its output duration cap and watermark
// requirement. Unknown tiers get free-tier limits rather than failing, so a
// stale client can never render longer than it paid for.
func LimitsFor(tier entities.Tier) entities.TierLimits {
	switch tier {
	case entities.TierPlus:
		return entities.TierLimits{MaxDurationSeconds: 180, WatermarkRequired: false}
	case entities.TierPro:
		return entities.TierLimits{MaxDurationSeconds: 600, WatermarkRequired: false}
	default:
		return entities.TierLimits{MaxDurationSeconds: 60, WatermarkRequired: true}
	}
}
