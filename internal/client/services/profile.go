package services

import (
	"context"
	"errors"

	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/store"
)

type ProfileService interface {
	// Get returns the profile row with the pack size. A user whose row was
	// never created gets an empty profile carrying only the id.
	Get(ctx context.Context, userID string) (*models.Profile, error)
}

type profileService struct {
	store store.Store
}

func NewProfileService(st store.Store) ProfileService {
	return &profileService{store: st}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := store.FetchOne(ctx, s.store, store.Query{
		Table:   tableUser,
		Filters: []store.Filter{store.Eq("id", userID)},
	}, mapUser)
	if errors.Is(err, common.ErrorNotFound) {
		user = models.User{ID: userID}
	} else if err != nil {
		return nil, err
	}

	count, err := countPets(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	return &models.Profile{User: user, PetCount: count}, nil
}
