package tariff

import (
	"time"

	"github.com/mlevasseur/stationnement/internal/domain"
)

// ResolvedDuration is either a concrete billable duration or the
// in-progress sentinel for a parking session that has not departed yet.
// The sentinel is never a zero or infinite duration; pricing code must
// branch on InProgress before touching Value.
type ResolvedDuration struct {
	Value      time.Duration
	InProgress bool
}

// ResolveDuration computes the billable duration of a session.
// Voirie sessions bill the declared duration regardless of wall clock;
// parking sessions bill the observed interval once departure is known.
func ResolveDuration(s *domain.Session) (ResolvedDuration, error) {
	if s.Kind == domain.SessionKindOnStreet {
		return ResolvedDuration{Value: s.PlannedDuration}, nil
	}
	if s.DepartedAt == nil {
		return ResolvedDuration{InProgress: true}, nil
	}
	d := s.DepartedAt.Sub(s.ArrivedAt)
	if d < 0 {
		return ResolvedDuration{}, domain.ErrInvalidInterval
	}
	return ResolvedDuration{Value: d}, nil
}
