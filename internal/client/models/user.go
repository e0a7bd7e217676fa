package models

import "time"

// User is the profile row, one per identity.
type User struct {
	ID                   string
	Email                string
	AcceptedTermsVersion string
	IsAdmin              bool
	CreatedAt            time.Time
}

// Profile is what the profile screen shows.
type Profile struct {
	User     User
	PetCount int
}
