package services

import "errors"

var (
	ErrPetLimitReached    = errors.New("pet limit reached")
	ErrMembershipInactive = errors.New("an active membership is required to check in")
	ErrCheckInInProgress  = errors.New("a check-in for this pet is already in progress")
	ErrTermsUnavailable   = errors.New("terms of service unavailable")
)
