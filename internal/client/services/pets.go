package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/client/upload"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
	"golang.org/x/sync/errgroup"
)

// PetAllowance is the outcome of the add-pet gate.
type PetAllowance struct {
	Allowed    int
	Registered int
}

type PetService interface {
	List(ctx context.Context, ownerID string) ([]models.Pet, error)
	Get(ctx context.Context, petID string) (*models.Pet, error)
	// CanAdd returns ErrPetLimitReached when the pack is full.
	CanAdd(ctx context.Context, ownerID string) (PetAllowance, error)
	// Add validates the form, uploads the chosen certificates concurrently
	// and inserts the pet once every upload has finished. A failed upload
	// aborts before the insert; documents already stored are left in place.
	Add(ctx context.Context, ownerID string, form models.PetForm) (*models.Pet, error)
}

type petService struct {
	store    store.Store
	uploader upload.Uploader
	log      logging.Logger
	now      func() time.Time
}

func NewPetService(st store.Store, uploader upload.Uploader, log logging.Logger) PetService {
	return &petService{store: st, uploader: uploader, log: log, now: time.Now}
}

func (s *petService) List(ctx context.Context, ownerID string) ([]models.Pet, error) {
	return store.Fetch(ctx, s.store, store.Query{
		Table:   tablePet,
		Filters: []store.Filter{store.Eq("ownerUserId", ownerID)},
		Order:   []store.Order{{Column: "createdAt", Desc: true}},
	}, mapPet)
}

func (s *petService) Get(ctx context.Context, petID string) (*models.Pet, error) {
	p, err := store.FetchOne(ctx, s.store, store.Query{
		Table:   tablePet,
		Filters: []store.Filter{store.Eq("id", petID)},
	}, mapPet)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *petService) CanAdd(ctx context.Context, ownerID string) (PetAllowance, error) {
	sub, err := fetchSubscription(ctx, s.store, ownerID)
	if err != nil {
		return PetAllowance{}, err
	}
	count, err := countPets(ctx, s.store, ownerID)
	if err != nil {
		return PetAllowance{}, err
	}

	a := PetAllowance{Allowed: sub.Allowed(), Registered: count}
	if a.Registered >= a.Allowed {
		return a, fmt.Errorf("%w: your plan allows %d pets", ErrPetLimitReached, a.Allowed)
	}
	return a, nil
}

func (s *petService) uploadCertificates(ctx context.Context, form models.PetForm) (map[models.CertificateSlot]string, error) {
	urls := make([]string, len(models.CertificateSlots))

	var g errgroup.Group
	for i, slot := range models.CertificateSlots {
		in, ok := form.Certificates[slot]
		if !ok || !in.HasFile() {
			continue
		}
		g.Go(func() error {
			url, err := s.uploader.Upload(ctx, upload.Document{
				Name:        in.FileName,
				ContentType: "application/pdf",
				Data:        in.Data,
			})
			if err != nil {
				return fmt.Errorf("%s certificate: %w", slot.Title(), err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[models.CertificateSlot]string)
	for i, slot := range models.CertificateSlots {
		if urls[i] != "" {
			out[slot] = urls[i]
		}
	}
	return out, nil
}

func (s *petService) Add(ctx context.Context, ownerID string, form models.PetForm) (*models.Pet, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	age, _ := form.AgeYears()

	if _, err := s.CanAdd(ctx, ownerID); err != nil {
		return nil, err
	}

	urls, err := s.uploadCertificates(ctx, form)
	if err != nil {
		s.log.Error(ctx, "certificate upload failed", "owner", ownerID, "error", err)
		return nil, err
	}

	row := store.Row{
		"id":                uuid.NewString(),
		"ownerUserId":       ownerID,
		"name":              form.Name,
		"age":               age,
		"breed":             form.Breed,
		"gender":            form.Gender,
		"color":             stringOrNil(form.Color),
		"vetName":           stringOrNil(form.VetName),
		"vetContact":        stringOrNil(form.VetContact),
		"emergencyName":     form.EmergencyName,
		"emergencyPhone":    form.EmergencyPhone,
		"emergencyRelation": form.EmergencyRelation,
		"createdAt":         s.now().UTC(),
	}
	for _, slot := range models.CertificateSlots {
		row[slot.URLColumn()] = stringOrNil(urls[slot])
		row[slot.ExpiryColumn()] = dateOrNil(form.Certificates[slot].Expiry)
	}

	if err := s.store.Insert(ctx, tablePet, row); err != nil {
		s.log.Error(ctx, "pet insert failed", "owner", ownerID, "uploaded", len(urls), "error", err)
		return nil, err
	}

	pet, _ := mapPet(row)
	s.log.Info(ctx, "pet added", "pet_id", pet.ID, "owner", ownerID)
	return &pet, nil
}
