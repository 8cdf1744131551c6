package domain

import (
	"fmt"
	"time"
)

type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "ACTIVE"
	SessionStatusFinished SessionStatus = "FINISHED"
	SessionStatusExpired  SessionStatus = "EXPIRED"
)

type SessionKind string

const (
	SessionKindOnStreet  SessionKind = "VOIRIE"
	SessionKindOffStreet SessionKind = "PARKING"
)

// Cents is a monetary amount in integer cents. All tariff arithmetic
// stays in cents; formatting happens only at output boundaries.
type Cents int64

func (c Cents) Format() string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}

// Session is a single parking session. On-street (voirie) sessions carry
// a declared duration fixed at creation; off-street (parking) sessions
// carry an observed arrival and, once the vehicle leaves, a departure.
type Session struct {
	ID         string
	VehicleID  int64
	Kind       SessionKind
	ZoneID     ZoneID
	FacilityID int64 // 0 for on-street sessions

	PlannedDuration time.Duration // voirie only
	ArrivedAt       time.Time     // parking only
	DepartedAt      *time.Time    // parking only, nil while the vehicle is inside

	CostCents Cents
	Status    SessionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartedAt is the instant the allotted duration is measured from:
// creation for voirie, arrival for parking.
func (s *Session) StartedAt() time.Time {
	if s.Kind == SessionKindOffStreet {
		return s.ArrivedAt
	}
	return s.CreatedAt
}

func (s *Session) Closed() bool {
	return s.DepartedAt != nil
}
