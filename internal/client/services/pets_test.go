package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/client/upload"
	"github.com/theyard/yard/internal/common"
	"github.com/theyard/yard/internal/logging"
	"github.com/theyard/yard/internal/store"
)

func validForm() models.PetForm {
	return models.PetForm{
		Name:              "Biscuit",
		Age:               "4",
		Breed:             "Corgi",
		Gender:            "male",
		EmergencyName:     "Sam",
		EmergencyPhone:    "555-0100",
		EmergencyRelation: "sibling",
	}
}

func newPetFixture(t *testing.T, up upload.Uploader) (*petService, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	svc := NewPetService(st, up, logging.Nop()).(*petService)
	svc.now = fixedNow
	return svc, st
}

func TestPetService_List_NewestFirst(t *testing.T) {
	svc, st := newPetFixture(t, &fakeUploader{})
	seedPet(st, "p1", "u1", "Old", testNow.Add(-48*time.Hour))
	seedPet(st, "p2", "u1", "New", testNow.Add(-time.Hour))
	seedPet(st, "p3", "u2", "Other", testNow)

	pets, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, pets, 2)
	assert.Equal(t, "New", pets[0].Name)
	assert.Equal(t, "Old", pets[1].Name)
}

func TestPetService_Get(t *testing.T) {
	svc, st := newPetFixture(t, &fakeUploader{})
	seedPet(st, "p1", "u1", "Biscuit", testNow)

	p, err := svc.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Biscuit", p.Name)
	assert.Equal(t, 3, p.Age)

	_, err = svc.Get(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPetService_CanAdd(t *testing.T) {
	tests := []struct {
		name    string
		allowed int
		sub     bool
		pets    int
		wantErr bool
	}{
		{name: "no subscription", sub: false, pets: 0, wantErr: true},
		{name: "room left", sub: true, allowed: 2, pets: 1},
		{name: "at limit", sub: true, allowed: 2, pets: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newPetFixture(t, &fakeUploader{})
			if tt.sub {
				seedSubscription(st, "u1", models.StatusActive, testNow.Add(time.Hour), tt.allowed)
			}
			for i := 0; i < tt.pets; i++ {
				seedPet(st, string(rune('a'+i)), "u1", "Dog", testNow)
			}

			a, err := svc.CanAdd(context.Background(), "u1")
			assert.Equal(t, tt.pets, a.Registered)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrPetLimitReached)
				assert.ErrorContains(t, err, "allows")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPetService_Add_ValidatesBeforeNetwork(t *testing.T) {
	up := &fakeUploader{}
	svc, st := newPetFixture(t, up)
	form := validForm()
	form.Age = "four"
	form.Certificates = map[models.CertificateSlot]models.CertificateInput{
		models.SlotParvo: {FileName: "parvo.pdf", Data: []byte("%PDF")},
	}

	_, err := svc.Add(context.Background(), "u1", form)
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Empty(t, up.names)

	n, _ := st.Count(context.Background(), tablePet)
	assert.Zero(t, n)
}

func TestPetService_Add(t *testing.T) {
	up := &fakeUploader{}
	svc, st := newPetFixture(t, up)
	seedSubscription(st, "u1", models.StatusActive, testNow.Add(time.Hour), 2)
	ctx := context.Background()

	form := validForm()
	form.VetName = "Dr. Paws"
	form.Certificates = map[models.CertificateSlot]models.CertificateInput{
		models.SlotParvo:  {FileName: "parvo.pdf", Data: []byte("%PDF"), Expiry: "2026-01-31"},
		models.SlotRabies: {FileName: "rabies.pdf", Data: []byte("%PDF")},
		models.SlotLepto:  {Expiry: "2025-12-01"},
	}

	p, err := svc.Add(ctx, "u1", form)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"parvo.pdf", "rabies.pdf"}, up.names)
	assert.Equal(t, 4, p.Age)
	assert.Equal(t, "u1", p.OwnerUserID)

	stored, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Paws", stored.VetName)
	assert.Equal(t, "", stored.Color)
	assert.Equal(t, "Sam", stored.Emergency.Name)
	assert.Equal(t, testNow, stored.CreatedAt)

	parvo := stored.Certificates[models.SlotParvo]
	assert.Equal(t, "https://files.test/parvo.pdf", parvo.URL)
	require.NotNil(t, parvo.Expiry)
	assert.Equal(t, "2026-01-31", parvo.Expiry.Format(time.DateOnly))

	assert.Equal(t, "https://files.test/rabies.pdf", stored.Certificates[models.SlotRabies].URL)
	assert.Nil(t, stored.Certificates[models.SlotRabies].Expiry)

	lepto := stored.Certificates[models.SlotLepto]
	assert.Empty(t, lepto.URL)
	require.NotNil(t, lepto.Expiry)

	_, ok := stored.Certificates[models.SlotFecal]
	assert.False(t, ok)
}

func TestPetService_Add_UploadFailureAbortsInsert(t *testing.T) {
	up := &fakeUploader{fail: "rabies.pdf"}
	svc, st := newPetFixture(t, up)
	seedSubscription(st, "u1", models.StatusActive, testNow.Add(time.Hour), 2)
	ctx := context.Background()

	form := validForm()
	form.Certificates = map[models.CertificateSlot]models.CertificateInput{
		models.SlotParvo:  {FileName: "parvo.pdf", Data: []byte("%PDF")},
		models.SlotRabies: {FileName: "rabies.pdf", Data: []byte("%PDF")},
	}

	_, err := svc.Add(ctx, "u1", form)
	require.Error(t, err)
	assert.EqualError(t, err, "Rabies certificate: Invalid file")

	var perr *upload.ProviderError
	require.ErrorAs(t, err, &perr)

	n, _ := st.Count(ctx, tablePet)
	assert.Zero(t, n)
}

func TestPetService_Add_LimitReached(t *testing.T) {
	up := &fakeUploader{}
	svc, st := newPetFixture(t, up)
	seedSubscription(st, "u1", models.StatusActive, testNow.Add(time.Hour), 1)
	seedPet(st, "p1", "u1", "Biscuit", testNow)

	form := validForm()
	form.Certificates = map[models.CertificateSlot]models.CertificateInput{
		models.SlotParvo: {FileName: "parvo.pdf", Data: []byte("%PDF")},
	}

	_, err := svc.Add(context.Background(), "u1", form)
	require.ErrorIs(t, err, ErrPetLimitReached)
	assert.Empty(t, up.names)
}
