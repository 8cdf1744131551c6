package tariff

import (
	"testing"
	"time"

	"github.com/mlevasseur/stationnement/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusAt(t *testing.T) {
	catalog := NewCatalog()
	jaune, _ := catalog.ZoneFor(domain.ZoneJaune)

	created := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	departed := created.Add(2 * time.Hour)
	lateDeparture := created.Add(4 * time.Hour)

	testCases := []struct {
		name     string
		session  *domain.Session
		now      time.Time
		expected domain.SessionStatus
	}{
		{
			name: "active within the allotted time",
			session: &domain.Session{
				Kind: domain.SessionKindOnStreet, Status: domain.SessionStatusActive,
				PlannedDuration: 2 * time.Hour, CreatedAt: created,
			},
			now:      created.Add(2 * time.Hour),
			expected: domain.SessionStatusActive,
		},
		{
			name: "still active at exactly the maximum",
			session: &domain.Session{
				Kind: domain.SessionKindOnStreet, Status: domain.SessionStatusActive,
				PlannedDuration: 2 * time.Hour, CreatedAt: created,
			},
			now:      created.Add(150 * time.Minute),
			expected: domain.SessionStatusActive,
		},
		{
			name: "expired past the maximum with no close",
			session: &domain.Session{
				Kind: domain.SessionKindOnStreet, Status: domain.SessionStatusActive,
				PlannedDuration: 2 * time.Hour, CreatedAt: created,
			},
			now:      created.Add(151 * time.Minute),
			expected: domain.SessionStatusExpired,
		},
		{
			name: "closed in time reads finished",
			session: &domain.Session{
				Kind: domain.SessionKindOffStreet, Status: domain.SessionStatusActive,
				ArrivedAt: created, DepartedAt: &departed,
			},
			now:      created.Add(24 * time.Hour),
			expected: domain.SessionStatusFinished,
		},
		{
			name: "closed late still reads finished",
			session: &domain.Session{
				Kind: domain.SessionKindOffStreet, Status: domain.SessionStatusActive,
				ArrivedAt: created, DepartedAt: &lateDeparture,
			},
			now:      created.Add(24 * time.Hour),
			expected: domain.SessionStatusFinished,
		},
		{
			name: "persisted terminal status wins",
			session: &domain.Session{
				Kind: domain.SessionKindOnStreet, Status: domain.SessionStatusFinished,
				PlannedDuration: 2 * time.Hour, CreatedAt: created,
			},
			now:      created.Add(time.Minute),
			expected: domain.SessionStatusFinished,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusAt(tc.session, jaune, tc.now))
		})
	}
}

func TestHalfDayBucket(t *testing.T) {
	morning := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)
	afternoon := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-08-29:AM", HalfDayBucket(morning, 12))
	assert.Equal(t, "2026-08-29:PM", HalfDayBucket(afternoon, 12))

	// The boundary hour itself opens the second bucket.
	noon := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-29:PM", HalfDayBucket(noon, 12))
	assert.Equal(t, "2026-08-29:AM", HalfDayBucket(noon, 13))
}
