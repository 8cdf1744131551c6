package tariff

import (
	"time"

	"github.com/mlevasseur/stationnement/internal/domain"
)

// StatusAt derives the session status as of now. Expired is a read-time
// derivation: the stored record may still say ACTIVE with no departure,
// and every read recomputes rather than trusting a stored flag. A
// recorded close always wins over lateness, so a session closed after
// its limit reads FINISHED (with overage priced separately).
func StatusAt(s *domain.Session, zone *domain.Zone, now time.Time) domain.SessionStatus {
	if s.Status == domain.SessionStatusFinished || s.Status == domain.SessionStatusExpired {
		return s.Status
	}
	if s.Closed() {
		return domain.SessionStatusFinished
	}
	if now.Sub(s.StartedAt()) > zone.MaxDuration {
		return domain.SessionStatusExpired
	}
	return domain.SessionStatusActive
}
