package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

// TermsService is the terms-of-service gate. Nothing is cached: every call
// reads the current version again.
type TermsService interface {
	// Current returns the terms with the latest activeFrom, or nil if none
	// were ever published.
	Current(ctx context.Context) (*models.Terms, error)
	Check(ctx context.Context, userID string) (models.GateState, *models.Terms, error)
	Accept(ctx context.Context, userID, version string) (models.GateState, error)
}

type termsService struct {
	store store.Store
	log   logging.Logger
}

func NewTermsService(st store.Store, log logging.Logger) TermsService {
	return &termsService{store: st, log: log}
}

func (s *termsService) Current(ctx context.Context) (*models.Terms, error) {
	t, err := store.FetchOne(ctx, s.store, store.Query{
		Table: tableTerms,
		Order: []store.Order{{Column: "activeFrom", Desc: true}},
	}, mapTerms)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		s.log.Error(ctx, "terms load failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTermsUnavailable, err)
	}
	return &t, nil
}

// Check compares the current version with the user's accepted one. A user
// who never accepted, or has no profile row yet, must accept.
func (s *termsService) Check(ctx context.Context, userID string) (models.GateState, *models.Terms, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return models.GateChecking, nil, err
	}
	if current == nil {
		return models.GateCleared, nil, nil
	}

	user, err := store.FetchOne(ctx, s.store, store.Query{
		Table:   tableUser,
		Columns: []string{"acceptedTermsVersion"},
		Filters: []store.Filter{store.Eq("id", userID)},
	}, mapUser)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return models.GateChecking, current, err
	}

	if user.AcceptedTermsVersion != current.Version {
		s.log.Info(ctx, "terms acceptance required", "user_id", userID, "version", current.Version)
		return models.GateMustAccept, current, nil
	}
	return models.GateCleared, current, nil
}

func (s *termsService) Accept(ctx context.Context, userID, version string) (models.GateState, error) {
	n, err := s.store.Update(ctx, tableUser, store.Row{"acceptedTermsVersion": version}, store.Eq("id", userID))
	if err != nil {
		s.log.Error(ctx, "terms accept failed", "user_id", userID, "error", err)
		return models.GateMustAccept, err
	}
	if n == 0 {
		return models.GateMustAccept, fmt.Errorf("%w: profile %s", common.ErrorNotFound, userID)
	}
	s.log.Info(ctx, "terms accepted", "user_id", userID, "version", version)
	return models.GateCleared, nil
}
