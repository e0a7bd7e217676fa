package services

import (
	"context"
	"errors"
	"time"

	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/store"
)

const (
	tableUser         = "User"
	tablePet          = "Pet"
	tableSubscription = "Subscription"
	tableCheckIn      = "CheckIn"
	tableTerms        = "Terms"
)

func mapUser(r store.Row) (models.User, error) {
	return models.User{
		ID:                   r.String("id"),
		Email:                r.String("email"),
		AcceptedTermsVersion: r.String("acceptedTermsVersion"),
		IsAdmin:              r.Bool("isAdmin"),
		CreatedAt:            r.Time("createdAt"),
	}, nil
}

func mapPet(r store.Row) (models.Pet, error) {
	p := models.Pet{
		ID:          r.String("id"),
		OwnerUserID: r.String("ownerUserId"),
		Name:        r.String("name"),
		Age:         r.Int("age"),
		Breed:       r.String("breed"),
		Gender:      r.String("gender"),
		Color:       r.String("color"),
		VetName:     r.String("vetName"),
		VetContact:  r.String("vetContact"),
		Emergency: models.EmergencyContact{
			Name:     r.String("emergencyName"),
			Phone:    r.String("emergencyPhone"),
			Relation: r.String("emergencyRelation"),
		},
		Certificates: make(map[models.CertificateSlot]models.Certificate),
		CreatedAt:    r.Time("createdAt"),
	}
	for _, slot := range models.CertificateSlots {
		c := models.Certificate{URL: r.String(slot.URLColumn()), Expiry: r.TimePtr(slot.ExpiryColumn())}
		if c.URL != "" || c.Expiry != nil {
			p.Certificates[slot] = c
		}
	}
	return p, nil
}

func mapSubscription(r store.Row) (models.Subscription, error) {
	return models.Subscription{
		UserID:           r.String("userId"),
		PriceID:          r.String("priceId"),
		Status:           r.String("status"),
		CurrentPeriodEnd: r.Time("currentPeriodEnd"),
		AllowedPets:      r.Int("allowedPets"),
	}, nil
}

func mapCheckIn(r store.Row) (models.CheckIn, error) {
	return models.CheckIn{
		ID:        r.String("id"),
		UserID:    r.String("userId"),
		PetID:     r.String("petId"),
		Type:      models.CheckInType(r.String("type")),
		Timestamp: r.Time("timestamp"),
	}, nil
}

func mapTerms(r store.Row) (models.Terms, error) {
	return models.Terms{
		Version:    r.String("version"),
		Text:       r.String("text"),
		ActiveFrom: r.Time("activeFrom"),
	}, nil
}

// fetchSubscription loads the user's subscription. No row is a valid empty
// state and yields nil.
func fetchSubscription(ctx context.Context, st store.Store, userID string) (*models.Subscription, error) {
	sub, err := store.FetchOne(ctx, st, store.Query{
		Table:   tableSubscription,
		Filters: []store.Filter{store.Eq("userId", userID)},
	}, mapSubscription)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sub.UserID = userID
	return &sub, nil
}

func countPets(ctx context.Context, st store.Store, ownerID string) (int, error) {
	return st.Count(ctx, tablePet, store.Eq("ownerUserId", ownerID))
}

func dateOrNil(s string) any {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil
	}
	return t
}

func stringOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
