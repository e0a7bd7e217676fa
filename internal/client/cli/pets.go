package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/theyard/yard/internal/client/models"
	"github.com/theyard/yard/internal/filex"
)

// maxDocumentBytes caps a single certificate upload.
const maxDocumentBytes = 10 << 20

// readDocument is a test seam for filex.ReadDocument.
var readDocument = filex.ReadDocument

func (a *App) Pets(ctx context.Context) error {
	pets, err := a.petList.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(pets) == 0 {
		a.printf("No pets yet. Type 'addpet' to register one.\n")
		return nil
	}
	for _, p := range pets {
		a.printf("%-36s  %-16s %-16s %d yrs\n", p.ID, p.Name, p.Breed, p.Age)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}

func (a *App) Pet(ctx context.Context, id string) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}
	p, err := a.pets.Get(ctx, id)
	if err != nil {
		return err
	}

	a.printf("%s\n", p.Name)
	a.printf("  Breed:     %s\n", p.Breed)
	a.printf("  Age:       %d\n", p.Age)
	a.printf("  Gender:    %s\n", p.Gender)
	if p.Color != "" {
		a.printf("  Color:     %s\n", p.Color)
	}
	if p.VetName != "" || p.VetContact != "" {
		a.printf("  Vet:       %s %s\n", p.VetName, p.VetContact)
	}
	a.printf("  Emergency: %s (%s) %s\n", p.Emergency.Name, p.Emergency.Relation, p.Emergency.Phone)
	a.printf("  Certificates:\n")
	for _, slot := range models.CertificateSlots {
		c, ok := p.Certificates[slot]
		if !ok {
			a.printf("    %-7s not provided\n", slot.Title())
			continue
		}
		url := c.URL
		if url == "" {
			url = "no document"
		}
		a.printf("    %-7s expires %s  %s\n", slot.Title(), formatDate(c.Expiry), url)
	}
	return nil
}

func (a *App) readCertificate(slot models.CertificateSlot) (models.CertificateInput, error) {
	var in models.CertificateInput

	path, err := getSimpleText(a.reader, slot.Title()+" certificate PDF path (empty to skip)", a.out)
	if err != nil {
		return in, err
	}
	if path != "" {
		data, err := readDocument(path, maxDocumentBytes)
		if err != nil {
			return in, fmt.Errorf("%s certificate: %w", slot.Title(), err)
		}
		in.FileName = filepath.Base(path)
		in.Data = data
	}

	in.Expiry, err = getSimpleText(a.reader, slot.Title()+" expiry date YYYY-MM-DD (empty if unknown)", a.out)
	return in, err
}

// AddPet checks the pack allowance, collects the form and submits it.
func (a *App) AddPet(ctx context.Context) error {
	id, err := a.requireUser()
	if err != nil {
		return err
	}
	if _, err := a.pets.CanAdd(ctx, id.ID); err != nil {
		return err
	}

	var form models.PetForm
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &form.Name},
		{"Age (years)", &form.Age},
		{"Breed", &form.Breed},
		{"Gender", &form.Gender},
		{"Color (optional)", &form.Color},
		{"Vet name (optional)", &form.VetName},
		{"Vet contact (optional)", &form.VetContact},
		{"Emergency contact name", &form.EmergencyName},
		{"Emergency contact phone", &form.EmergencyPhone},
		{"Emergency contact relation", &form.EmergencyRelation},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	form.Certificates = make(map[models.CertificateSlot]models.CertificateInput)
	for _, slot := range models.CertificateSlots {
		in, err := a.readCertificate(slot)
		if err != nil {
			return err
		}
		if in.HasFile() || in.Expiry != "" {
			form.Certificates[slot] = in
		}
	}

	a.printf("Saving %s...\n", form.Name)
	p, err := a.pets.Add(ctx, id.ID, form)
	if err != nil {
		return err
	}
	a.printf("%s joined your pack. Badge code: %s\n", p.Name, p.ID)
	return nil
}

// QR prints the pet badge. The code is the bare pet id, the same payload
// the gate scanner reads.
func (a *App) QR(ctx context.Context, id string) error {
	art, err := RenderQR(id)
	if err != nil {
		return err
	}
	a.printf("%s\n%s\n", art, strings.TrimSpace(id))
	return nil
}

// RenderQR draws payload as a terminal QR code.
func RenderQR(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if _, err := models.ParsePetPayload(payload); err != nil {
		return "", err
	}
	qr, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("qr encode: %w", err)
	}
	return qr.ToSmallString(false), nil
}
