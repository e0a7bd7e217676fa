// Package common defines constants and sentinel errors shared by the Yard
// client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorNotFound = errors.New("not found")

	// Local validation, raised before any network call is made.
	ErrorValidation = errors.New("validation error")

	// Session errors.
	ErrNotSignedIn    = errors.New("not signed in")
	ErrSessionLoading = errors.New("session is still loading")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
