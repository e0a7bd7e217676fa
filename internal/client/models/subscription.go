package models

import (
	"fmt"
	"time"
)

const StatusActive = "active"

// Subscription is the billing row, written only by the billing webhook.
type Subscription struct {
	UserID           string
	PriceID          string
	Status           string
	CurrentPeriodEnd time.Time
	AllowedPets      int
}

// IsActive is the single membership rule used by every screen: the status
// is "active" and the paid period has not ended. A nil subscription is
// inactive.
func (s *Subscription) IsActive(now time.Time) bool {
	if s == nil {
		return false
	}
	return s.Status == StatusActive && s.CurrentPeriodEnd.After(now)
}

// Allowed returns the pet allowance, zero without a subscription.
func (s *Subscription) Allowed() int {
	if s == nil {
		return 0
	}
	return s.AllowedPets
}

// Membership is the read-only projection shown on the membership screen.
type Membership struct {
	Subscription *Subscription
	Plan         string
	Active       bool
}

// Dashboard summarises membership and pack size.
type Dashboard struct {
	Active      bool
	Status      string
	AllowedPets int
	PetCount    int
	RenewsAt    *time.Time
}

// SlotsUsed renders the pack allowance line. An inactive membership grants
// no slots.
func (d Dashboard) SlotsUsed() string {
	allowed := 0
	if d.Active {
		allowed = d.AllowedPets
	}
	return fmt.Sprintf("%d of %d slots used", d.PetCount, allowed)
}
