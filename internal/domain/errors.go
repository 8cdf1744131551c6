package domain

import "errors"

var (
	// ErrUnknownZone: the zone id is not in the catalog.
	ErrUnknownZone = errors.New("unknown zone")
	// ErrSessionNotFound: no session with the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidInterval: departure precedes arrival.
	ErrInvalidInterval = errors.New("departure precedes arrival")
	// ErrCannotPriceOpenSession: pricing requested for a parking session
	// with no recorded departure.
	ErrCannotPriceOpenSession = errors.New("cannot price an open session")
	// ErrVehicleAlreadyActive: the vehicle already has an active session.
	ErrVehicleAlreadyActive = errors.New("vehicle already has an active session")
	// ErrSessionNotActive: close requested for an already-terminal session.
	ErrSessionNotActive = errors.New("session is not active")
)
