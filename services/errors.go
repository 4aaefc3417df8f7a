package services

import "errors"

// Shared errors used across services and HTTP mapping.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrNoEntrants         = errors.New("at least one entrant name is required")

	ErrPasscodeNotSet  = errors.New("no passcode was set for this tournament")
	ErrPasscodeInvalid = errors.New("passcode does not match")

	ErrSnapshotsDisabled = errors.New("snapshot storage is not configured")
	ErrNothingToSnapshot = errors.New("no completed rounds to snapshot yet")
)
