// Package domain contains core business types and interfaces.
//
// This file defines subscription plan tiers and the monthly reminder limits
// attached to them.
package domain

// PlanTier represents the subscription plan a user is on.
type PlanTier string

const (
	PlanTierBasic PlanTier = "basic"
	PlanTierPro   PlanTier = "pro"
)

// Default monthly reminder limits per tier.
const (
	DefaultBasicReminderLimit = 15
	DefaultProReminderLimit   = 100
)

// LowestPlanTier is the entry tier. Users on it are nudged to upgrade when
// they approach their limit.
const LowestPlanTier = PlanTierBasic

// IsValid returns true if the tier is a known plan.
func (t PlanTier) IsValid() bool {
	switch t {
	case PlanTierBasic, PlanTierPro:
		return true
	}
	return false
}

// PlanLimits maps plan tiers to their monthly reminder limit.
type PlanLimits map[PlanTier]int64

// DefaultPlanLimits returns the stock limits: basic = 15, pro = 100.
func DefaultPlanLimits() PlanLimits {
	return PlanLimits{
		PlanTierBasic: DefaultBasicReminderLimit,
		PlanTierPro:   DefaultProReminderLimit,
	}
}

// LimitFor returns the monthly reminder limit for a tier. Unknown tiers
// resolve to the lowest tier's limit.
func (l PlanLimits) LimitFor(tier PlanTier) int64 {
	if limit, ok := l[tier]; ok {
		return limit
	}
	if limit, ok := l[LowestPlanTier]; ok {
		return limit
	}
	return DefaultBasicReminderLimit
}

// Normalize returns the tier itself if known, otherwise the lowest tier.
func (l PlanLimits) Normalize(tier PlanTier) PlanTier {
	if _, ok := l[tier]; ok {
		return tier
	}
	return LowestPlanTier
}
