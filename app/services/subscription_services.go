package services

import (
	"context"
	"time"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/logger"
)

// SubscribeInput is the body of POST /api/subscriptions/subscribe. Blank
// fields are rejected by Subscribe as INVALID_REQUEST.
type SubscribeInput struct {
	SubscriptionType string `json:"subscriptionType"`
	BillingCycle     string `json:"billingCycle"`
}

type SubscriptionService struct {
	users *repositories.UserRepository
	now   func() time.Time
}

func NewSubscriptionService(users *repositories.UserRepository, now func() time.Time) *SubscriptionService {
	if now == nil {
		now = time.Now
	}
	return &SubscriptionService{users: users, now: now}
}

// Subscribe moves user to a paid tier. The tier and cycle are checked
// before the role, and only plain USERs may subscribe. The expiration is today plus one calendar month or year; a day that does
// not exist in the target month clamps to its last day. Invalid input
// leaves the identity untouched.
func (s *SubscriptionService) Subscribe(ctx context.Context, user *models.User, in SubscribeInput) (*models.User, error) {
	tier, err := models.ParseTier(in.SubscriptionType)
	if err != nil || !tier.Purchasable() {
		return nil, apperror.InvalidRequestf("invalid subscription type %q", in.SubscriptionType)
	}
	cycle, err := models.ParseBillingCycle(in.BillingCycle)
	if err != nil {
		return nil, apperror.InvalidRequestf("invalid billing cycle %q", in.BillingCycle)
	}
	if user.Role != models.RoleUser {
		return nil, apperror.Forbidden("only users can subscribe")
	}

	expires := Expiration(s.now().UTC(), cycle)

	updated := *user
	updated.SubscriptionType = tier
	updated.SubscriptionExpiration = &expires
	if err := s.users.Save(ctx, &updated); err != nil {
		return nil, err
	}

	logger.WithCtx(ctx).Info("subscription updated",
		"user_id", user.ID, "tier", tier, "cycle", cycle, "expires", expires.Format(time.DateOnly))
	return &updated, nil
}

// Expiration returns the date one billing cycle after now's date.
func Expiration(now time.Time, cycle models.BillingCycle) time.Time {
	y, m, d := now.Date()
	if cycle == models.BillingYearly {
		y++
	} else {
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}

	if last := daysIn(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
