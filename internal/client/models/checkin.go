package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/theyard/yard/internal/common"
)

type CheckInType string

const (
	CheckInTypeIn  CheckInType = "IN"
	CheckInTypeOut CheckInType = "OUT"
)

// CheckIn is one presence event. Rows are append-only.
type CheckIn struct {
	ID        string
	UserID    string
	PetID     string
	Type      CheckInType
	Timestamp time.Time
}

// CheckInEntry is a history line, the event joined with its pet's name.
type CheckInEntry struct {
	CheckIn
	PetName string
}

// NextCheckInType toggles the last recorded state. No prior event means IN.
func NextCheckInType(last *CheckIn) CheckInType {
	if last != nil && last.Type == CheckInTypeIn {
		return CheckInTypeOut
	}
	return CheckInTypeIn
}

// ParsePetPayload extracts the pet id from a scanned badge. The payload is
// the bare id.
func ParsePetPayload(payload string) (string, error) {
	id := strings.TrimSpace(payload)
	if id == "" {
		return "", fmt.Errorf("%w: empty pet code", common.ErrorValidation)
	}
	return id, nil
}
