// Package domain contains core business types and interfaces.
//
// This file defines the quota snapshot derived from a user's plan limit and
// their reminder usage for the current month.
package domain

import (
	"math"
	"time"
)

// Thresholds expressed as fractions of the monthly limit.
const (
	nearLimitNumerator   = 8 // usage/limit >= 0.8
	upgradeHintNumerator = 9 // usage/limit >= 0.9
	thresholdDenominator = 10
)

// QuotaInsights are UI hints derived from usage.
type QuotaInsights struct {
	IsNearLimit   bool `json:"isNearLimit"`
	ShouldUpgrade bool `json:"shouldUpgrade"`
}

// QuotaStatus is a user's reminder quota for one calendar month.
type QuotaStatus struct {
	Usage             int64         `json:"usage"`
	Limit             int64         `json:"limit"`
	Remaining         int64         `json:"remaining"`
	UsagePercentage   int64         `json:"usagePercentage"`
	CanCreateReminder bool          `json:"canCreateReminder"`
	PlanType          PlanTier      `json:"planType"`
	MonthKey          string        `json:"monthKey"`
	Insights          QuotaInsights `json:"insights"`
}

// NewQuotaStatus computes the quota snapshot for a tier, its limit and the
// usage recorded so far this month. A zero (or negative) limit is treated as
// fully used.
func NewQuotaStatus(tier PlanTier, limit, usage int64, monthKey string) QuotaStatus {
	if usage < 0 {
		usage = 0
	}

	status := QuotaStatus{
		Usage:    usage,
		Limit:    limit,
		PlanType: tier,
		MonthKey: monthKey,
	}

	if limit <= 0 {
		status.Limit = 0
		status.UsagePercentage = 100
		status.CanCreateReminder = false
		status.Insights = QuotaInsights{
			IsNearLimit:   true,
			ShouldUpgrade: tier == LowestPlanTier,
		}
		return status
	}

	status.Remaining = max(0, limit-usage)
	status.CanCreateReminder = usage < limit
	status.UsagePercentage = int64(math.Round(float64(usage) * 100 / float64(limit)))

	// Integer comparisons keep 12/15 exactly at the 80% boundary.
	status.Insights.IsNearLimit = usage*thresholdDenominator >= limit*nearLimitNumerator
	status.Insights.ShouldUpgrade = tier == LowestPlanTier &&
		usage*thresholdDenominator >= limit*upgradeHintNumerator

	return status
}

// MonthKey returns the usage bucket for an instant: the UTC calendar month
// formatted as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
