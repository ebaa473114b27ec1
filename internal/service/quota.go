// Package service contains the business logic layer.
//
// This file implements the quota engine: the monthly reminder allowance of
// a user given their plan tier and what they have used so far.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/DukeRupert/duesoon/internal/domain"
	"github.com/DukeRupert/duesoon/internal/usage"
	"github.com/google/uuid"
)

// =============================================================================
// Interface Definition
// =============================================================================

// QuotaService evaluates reminder quotas.
type QuotaService interface {
	// Status returns the quota of the user for the current UTC month.
	Status(ctx context.Context, userID uuid.UUID) (*domain.QuotaStatus, error)

	// StatusAt returns the quota of an already loaded user for the month
	// containing at.
	StatusAt(ctx context.Context, user *domain.User, at time.Time) (*domain.QuotaStatus, error)
}

// =============================================================================
// Implementation
// =============================================================================

type quotaService struct {
	users   UserStore
	counter usage.Counter
	limits  domain.PlanLimits
	logger  *slog.Logger
	now     func() time.Time
}

// NewQuotaService creates a new QuotaService. A nil limits map uses the
// default plan limits.
func NewQuotaService(users UserStore, counter usage.Counter, limits domain.PlanLimits, logger *slog.Logger) QuotaService {
	if limits == nil {
		limits = domain.DefaultPlanLimits()
	}
	return &quotaService{
		users:   users,
		counter: counter,
		limits:  limits,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *quotaService) Status(ctx context.Context, userID uuid.UUID) (*domain.QuotaStatus, error) {
	const op = "quota.status"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, err
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}

	return s.StatusAt(ctx, user, s.now())
}

func (s *quotaService) StatusAt(ctx context.Context, user *domain.User, at time.Time) (*domain.QuotaStatus, error) {
	const op = "quota.status_at"

	if !user.PlanTier.IsValid() {
		s.logger.Warn("unknown plan tier; applying the lowest tier's limit",
			"user_id", user.ID,
			"plan_tier", user.PlanTier,
		)
	}

	tier := s.limits.Normalize(user.PlanTier)
	limit := s.limits.LimitFor(tier)
	monthKey := domain.MonthKey(at)

	used, err := s.counter.Get(ctx, user.ID, monthKey)
	if err != nil {
		s.logger.Error("failed to read reminder usage",
			"user_id", user.ID,
			"month", monthKey,
			"error", err,
		)
		return nil, domain.Internal(err, op, "failed to read reminder usage")
	}

	status := domain.NewQuotaStatus(tier, limit, used, monthKey)
	return &status, nil
}
