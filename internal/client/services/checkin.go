package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

type CheckInService interface {
	// Toggle records the next event for the pet named by a scanned badge.
	// The new type is the opposite of the pet's last event, IN when there is
	// none. Without an active membership nothing is written.
	Toggle(ctx context.Context, userID, payload string) (*models.CheckInEntry, error)
	// History returns the user's events newest first.
	History(ctx context.Context, userID string) ([]models.CheckInEntry, error)
}

type checkInService struct {
	store store.Store
	log   logging.Logger
	now   func() time.Time

	inFlight sync.Map
}

func NewCheckInService(st store.Store, log logging.Logger) CheckInService {
	return &checkInService{store: st, log: log, now: time.Now}
}

func (s *checkInService) lastCheckIn(ctx context.Context, petID string) (*models.CheckIn, error) {
	c, err := store.FetchOne(ctx, s.store, store.Query{
		Table:   tableCheckIn,
		Filters: []store.Filter{store.Eq("petId", petID)},
		Order:   []store.Order{{Column: "timestamp", Desc: true}},
		Limit:   1,
	}, mapCheckIn)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *checkInService) Toggle(ctx context.Context, userID, payload string) (*models.CheckInEntry, error) {
	petID, err := models.ParsePetPayload(payload)
	if err != nil {
		return nil, err
	}

	if _, busy := s.inFlight.LoadOrStore(petID, struct{}{}); busy {
		return nil, ErrCheckInInProgress
	}
	defer s.inFlight.Delete(petID)

	sub, err := fetchSubscription(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive(s.now()) {
		return nil, ErrMembershipInactive
	}

	pet, err := store.FetchOne(ctx, s.store, store.Query{
		Table:   tablePet,
		Columns: []string{"id", "name"},
		Filters: []store.Filter{store.Eq("id", petID)},
	}, mapPet)
	if err != nil {
		return nil, err
	}

	last, err := s.lastCheckIn(ctx, petID)
	if err != nil {
		s.log.Error(ctx, "last check-in load failed", "pet_id", petID, "error", err)
		return nil, err
	}

	ev := models.CheckIn{
		ID:        uuid.NewString(),
		UserID:    userID,
		PetID:     petID,
		Type:      models.NextCheckInType(last),
		Timestamp: s.now().UTC(),
	}
	err = s.store.Insert(ctx, tableCheckIn, store.Row{
		"id":        ev.ID,
		"userId":    ev.UserID,
		"petId":     ev.PetID,
		"type":      string(ev.Type),
		"timestamp": ev.Timestamp,
	})
	if err != nil {
		s.log.Error(ctx, "check-in insert failed", "pet_id", petID, "error", err)
		return nil, err
	}

	s.log.Info(ctx, "check-in recorded", "pet_id", petID, "type", ev.Type)
	return &models.CheckInEntry{CheckIn: ev, PetName: pet.Name}, nil
}

func (s *checkInService) History(ctx context.Context, userID string) ([]models.CheckInEntry, error) {
	events, err := store.Fetch(ctx, s.store, store.Query{
		Table:   tableCheckIn,
		Filters: []store.Filter{store.Eq("userId", userID)},
		Order:   []store.Order{{Column: "timestamp", Desc: true}},
	}, mapCheckIn)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}

	pets, err := store.Fetch(ctx, s.store, store.Query{
		Table:   tablePet,
		Columns: []string{"id", "name"},
		Filters: []store.Filter{store.Eq("ownerUserId", userID)},
	}, mapPet)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(pets))
	for _, p := range pets {
		names[p.ID] = p.Name
	}

	out := make([]models.CheckInEntry, 0, len(events))
	for _, ev := range events {
		out = append(out, models.CheckInEntry{CheckIn: ev, PetName: names[ev.PetID]})
	}
	return out, nil
}
