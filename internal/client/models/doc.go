// Package models defines the client-side view of the Yard tables and the
// small pieces of logic that belong to them: pet form validation, the
// membership activity rule and the check-in toggle.
package models
