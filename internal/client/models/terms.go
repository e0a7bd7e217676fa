package models

import "time"

// Terms is one published version of the terms of service.
type Terms struct {
	Version    string
	Text       string
	ActiveFrom time.Time
}

// GateState is the outcome of the terms gate.
type GateState string

const (
	GateChecking   GateState = "checking"
	GateMustAccept GateState = "must_accept"
	GateCleared    GateState = "cleared"
)
