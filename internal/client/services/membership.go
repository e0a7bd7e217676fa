package services

import (
	"context"
	"time"

	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

// MembershipService is read-only. Subscriptions are written by the billing
// webhook; purchases and changes happen on the external pages.
type MembershipService interface {
	Get(ctx context.Context, userID string) (*models.Membership, error)
	PricingURL() string
	ManageURL() string
}

type membershipService struct {
	store      store.Store
	pricingURL string
	manageURL  string
	log        logging.Logger
	now        func() time.Time
}

func NewMembershipService(st store.Store, pricingURL, manageURL string, log logging.Logger) MembershipService {
	return &membershipService{store: st, pricingURL: pricingURL, manageURL: manageURL, log: log, now: time.Now}
}

func (s *membershipService) Get(ctx context.Context, userID string) (*models.Membership, error) {
	sub, err := fetchSubscription(ctx, s.store, userID)
	if err != nil {
		s.log.Error(ctx, "subscription load failed", "user_id", userID, "error", err)
		return nil, err
	}

	m := &models.Membership{Subscription: sub, Plan: models.PlanTitle("")}
	if sub != nil {
		m.Plan = models.PlanTitle(sub.PriceID)
		m.Active = sub.IsActive(s.now())
	}
	return m, nil
}

func (s *membershipService) PricingURL() string { return s.pricingURL }

func (s *membershipService) ManageURL() string { return s.manageURL }
