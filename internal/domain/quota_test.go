package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewQuotaStatus(t *testing.T) {
	tests := []struct {
		name          string
		tier          PlanTier
		limit         int64
		usage         int64
		wantRemaining int64
		wantPercent   int64
		wantCreate    bool
		wantNear      bool
		wantUpgrade   bool
	}{
		{"fresh basic user", PlanTierBasic, 15, 0, 15, 0, true, false, false},
		{"basic at 80 percent", PlanTierBasic, 15, 12, 3, 80, true, true, false},
		{"basic just under 80 percent", PlanTierBasic, 15, 11, 4, 73, true, false, false},
		{"basic at 90 percent", PlanTierBasic, 20, 18, 2, 90, true, true, true},
		{"basic exhausted", PlanTierBasic, 15, 15, 0, 100, false, true, true},
		{"basic over limit", PlanTierBasic, 15, 17, 0, 113, false, true, true},
		{"pro at 90 percent never upgrades", PlanTierPro, 100, 95, 5, 95, true, true, false},
		{"pro exhausted", PlanTierPro, 100, 100, 0, 100, false, true, false},
		{"zero limit", PlanTierBasic, 0, 0, 0, 100, false, true, true},
		{"zero limit pro", PlanTierPro, 0, 3, 0, 100, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewQuotaStatus(tt.tier, tt.limit, tt.usage, "2026-10")

			assert.Equal(t, tt.usage, got.Usage)
			assert.Equal(t, tt.wantRemaining, got.Remaining)
			assert.Equal(t, tt.wantPercent, got.UsagePercentage)
			assert.Equal(t, tt.wantCreate, got.CanCreateReminder)
			assert.Equal(t, tt.wantNear, got.Insights.IsNearLimit)
			assert.Equal(t, tt.wantUpgrade, got.Insights.ShouldUpgrade)
			assert.Equal(t, tt.tier, got.PlanType)
			assert.Equal(t, "2026-10", got.MonthKey)
		})
	}
}

func TestNewQuotaStatus_CanCreateFlipsExactlyAtLimit(t *testing.T) {
	const limit = 15
	for usage := int64(0); usage <= limit+2; usage++ {
		got := NewQuotaStatus(PlanTierBasic, limit, usage, "2026-10")
		assert.Equal(t, usage < limit, got.CanCreateReminder, "usage=%d", usage)
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"mid month", time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), "2026-10"},
		{"first instant", time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), "2026-11"},
		{"last instant", time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC), "2026-10"},
		{"non-utc zone uses utc month", time.Date(2026, 11, 1, 0, 30, 0, 0, time.FixedZone("WAT", 3600)), "2026-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthKey(tt.at))
		})
	}
}

func TestPlanLimits_LimitFor(t *testing.T) {
	limits := DefaultPlanLimits()

	assert.Equal(t, int64(15), limits.LimitFor(PlanTierBasic))
	assert.Equal(t, int64(100), limits.LimitFor(PlanTierPro))
	assert.Equal(t, int64(15), limits.LimitFor("enterprise"), "unknown tiers fall back to basic")
	assert.Equal(t, PlanTierBasic, limits.Normalize(""))
	assert.Equal(t, PlanTierPro, limits.Normalize(PlanTierPro))

	custom := PlanLimits{PlanTierPro: 250}
	assert.Equal(t, int64(DefaultBasicReminderLimit), custom.LimitFor("unknown"))
}

func TestQuotaExceededError(t *testing.T) {
	err := QuotaExceeded("quota.check", PlanTierBasic, 15, 15)

	assert.True(t, IsQuotaExceeded(err))
	assert.Equal(t, EPAYMENT, ErrorCode(err))
	assert.Contains(t, err.Error(), "basic plan")
	assert.False(t, IsQuotaExceeded(Internal(nil, "op", "boom")))
}
