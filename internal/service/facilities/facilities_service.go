package facilities

import (
	"context"

	"github.com/mlevasseur/stationnement/internal/cache"
	"github.com/mlevasseur/stationnement/internal/repository"
	"github.com/mlevasseur/stationnement/internal/tariff"
)

type FacilityUseCase interface {
	List(ctx context.Context) ([]cache.FacilityStatus, error)
}

type FacilityCache interface {
	GetFacilities(ctx context.Context) ([]cache.FacilityStatus, error)
	SetFacilities(ctx context.Context, facilities []cache.FacilityStatus) error
}

// FacilityService joins the static facility catalog with the live count
// of active off-street sessions, behind a short-lived cache.
type FacilityService struct {
	sessions repository.SessionRepository
	catalog  *tariff.Catalog
	cache    FacilityCache
}

func NewFacilityService(sessions repository.SessionRepository, catalog *tariff.Catalog, facilityCache FacilityCache) *FacilityService {
	return &FacilityService{sessions: sessions, catalog: catalog, cache: facilityCache}
}

func (s *FacilityService) List(ctx context.Context) ([]cache.FacilityStatus, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFacilities(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	counts, err := s.sessions.CountActiveByFacility(ctx)
	if err != nil {
		return nil, err
	}

	facilities := make([]cache.FacilityStatus, 0)
	for _, f := range s.catalog.Facilities() {
		occupied := counts[f.ID]
		facilities = append(facilities, cache.FacilityStatus{
			ID:        f.ID,
			Name:      f.Name,
			ZoneID:    string(f.ZoneID),
			Capacity:  f.Capacity,
			Occupied:  occupied,
			Available: f.Capacity - occupied,
		})
	}

	if s.cache != nil {
		_ = s.cache.SetFacilities(ctx, facilities)
	}
	return facilities, nil
}

var _ FacilityUseCase = (*FacilityService)(nil)
