package services

import (
	"context"
	"time"

	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

type DashboardService interface {
	Get(ctx context.Context, userID string) (*models.Dashboard, error)
}

type dashboardService struct {
	store store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewDashboardService(st store.Store, log logging.Logger) DashboardService {
	return &dashboardService{store: st, log: log, now: time.Now}
}

func (s *dashboardService) Get(ctx context.Context, userID string) (*models.Dashboard, error) {
	sub, err := fetchSubscription(ctx, s.store, userID)
	if err != nil {
		s.log.Error(ctx, "subscription load failed", "user_id", userID, "error", err)
		return nil, err
	}
	count, err := countPets(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	d := &models.Dashboard{
		Active:      sub.IsActive(s.now()),
		AllowedPets: sub.Allowed(),
		PetCount:    count,
	}
	if sub != nil {
		d.Status = sub.Status
		if !sub.CurrentPeriodEnd.IsZero() {
			renews := sub.CurrentPeriodEnd
			d.RenewsAt = &renews
		}
	}
	return d, nil
}
