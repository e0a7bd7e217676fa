package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theyard/yard/internal/common"
)

// CertificateSlot names one of the four vaccination documents a pet can carry.
type CertificateSlot string

const (
	SlotParvo  CertificateSlot = "parvo"
	SlotRabies CertificateSlot = "rabies"
	SlotFecal  CertificateSlot = "fecal"
	SlotLepto  CertificateSlot = "lepto"
)

// CertificateSlots lists the slots in display order.
var CertificateSlots = []CertificateSlot{SlotParvo, SlotRabies, SlotFecal, SlotLepto}

// URLColumn is the Pet column holding the uploaded document URL.
func (s CertificateSlot) URLColumn() string { return string(s) + "CertUrl" }

// ExpiryColumn is the Pet column holding the certificate expiry date.
func (s CertificateSlot) ExpiryColumn() string { return string(s) + "Expiry" }

func (s CertificateSlot) Title() string {
	switch s {
	case SlotParvo:
		return "Parvo"
	case SlotRabies:
		return "Rabies"
	case SlotFecal:
		return "Fecal"
	case SlotLepto:
		return "Lepto"
	default:
		return string(s)
	}
}

type Certificate struct {
	URL    string
	Expiry *time.Time
}

type EmergencyContact struct {
	Name     string
	Phone    string
	Relation string
}

type Pet struct {
	ID           string
	OwnerUserID  string
	Name         string
	Age          int
	Breed        string
	Gender       string
	Color        string
	VetName      string
	VetContact   string
	Emergency    EmergencyContact
	Certificates map[CertificateSlot]Certificate
	CreatedAt    time.Time
}

// CertificateInput is a document picked for one slot. Data may be empty
// when only an expiry date is known.
type CertificateInput struct {
	FileName string
	Data     []byte
	Expiry   string
}

// HasFile reports whether there is a document to upload.
func (c CertificateInput) HasFile() bool {
	return len(c.Data) > 0
}

// PetForm is the raw add-pet form. Values are kept as typed so validation
// can report the exact field.
type PetForm struct {
	Name              string
	Age               string
	Breed             string
	Gender            string
	Color             string
	VetName           string
	VetContact        string
	EmergencyName     string
	EmergencyPhone    string
	EmergencyRelation string
	Certificates      map[CertificateSlot]CertificateInput
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

// Validate checks required fields and formats. It never touches the network.
func (f PetForm) Validate() error {
	required := []struct {
		label string
		value string
	}{
		{"name", f.Name},
		{"age", f.Age},
		{"breed", f.Breed},
		{"gender", f.Gender},
		{"emergency contact name", f.EmergencyName},
		{"emergency contact phone", f.EmergencyPhone},
		{"emergency contact relation", f.EmergencyRelation},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return validationError("%s is required", r.label)
		}
	}

	if _, err := f.AgeYears(); err != nil {
		return err
	}

	for slot, c := range f.Certificates {
		if c.Expiry == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, c.Expiry); err != nil {
			return validationError("%s expiry must be YYYY-MM-DD", slot.Title())
		}
	}
	return nil
}

// AgeYears parses the age field.
func (f PetForm) AgeYears() (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(f.Age))
	if err != nil || age < 0 {
		return 0, validationError("age must be a whole number")
	}
	return age, nil
}
