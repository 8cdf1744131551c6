package tariff

import (
	"testing"
	"time"

	"github.com/mlevasseur/stationnement/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolveDuration_OnStreet(t *testing.T) {
	// The declared duration is contractual whatever the wall clock says.
	session := &domain.Session{
		Kind:            domain.SessionKindOnStreet,
		PlannedDuration: 2 * time.Hour,
		CreatedAt:       time.Now().Add(-5 * time.Hour),
	}

	resolved, err := ResolveDuration(session)
	assert.NoError(t, err)
	assert.False(t, resolved.InProgress)
	assert.Equal(t, 2*time.Hour, resolved.Value)
}

func TestResolveDuration_OffStreetClosed(t *testing.T) {
	arrived := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	departed := arrived.Add(25 * time.Minute)
	session := &domain.Session{
		Kind:       domain.SessionKindOffStreet,
		ArrivedAt:  arrived,
		DepartedAt: &departed,
	}

	resolved, err := ResolveDuration(session)
	assert.NoError(t, err)
	assert.False(t, resolved.InProgress)
	assert.Equal(t, 25*time.Minute, resolved.Value)
}

func TestResolveDuration_OffStreetOpen(t *testing.T) {
	session := &domain.Session{
		Kind:      domain.SessionKindOffStreet,
		ArrivedAt: time.Now().Add(-time.Hour),
	}

	resolved, err := ResolveDuration(session)
	assert.NoError(t, err)
	assert.True(t, resolved.InProgress)
	assert.Zero(t, resolved.Value)
}

func TestResolveDuration_DepartureBeforeArrival(t *testing.T) {
	arrived := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	departed := arrived.Add(-time.Minute)
	session := &domain.Session{
		Kind:       domain.SessionKindOffStreet,
		ArrivedAt:  arrived,
		DepartedAt: &departed,
	}

	_, err := ResolveDuration(session)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)
}
