package tariff

import (
	"time"

	"github.com/mlevasseur/stationnement/internal/domain"
)

// Catalog is the static zone and facility table. It is built once at
// process start and only read afterwards, so no locking applies.
type Catalog struct {
	zones      map[domain.ZoneID]*domain.Zone
	facilities map[int64]*domain.Facility
}

var workdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

func NewCatalog() *Catalog {
	zones := []*domain.Zone{
		{
			ID:         domain.ZoneJaune,
			ActiveDays: workdays,
			Windows:    []domain.TimeWindow{{StartMinute: 9 * 60, EndMinute: 19 * 60}},
			Tiers: []domain.TariffTier{
				{Threshold: 30 * time.Minute, PriceCents: 100},
				{Threshold: time.Hour, PriceCents: 170},
				{Threshold: 90 * time.Minute, PriceCents: 240},
				{Threshold: 2 * time.Hour, PriceCents: 300},
				{Threshold: 150 * time.Minute, PriceCents: 360},
			},
			MaxDuration:    150 * time.Minute,
			OveragePenalty: 1700,
		},
		{
			ID:         domain.ZoneOrange,
			ActiveDays: workdays,
			Windows:    []domain.TimeWindow{{StartMinute: 9 * 60, EndMinute: 19 * 60}},
			Tiers: []domain.TariffTier{
				{Threshold: time.Hour, PriceCents: 120},
				{Threshold: 2 * time.Hour, PriceCents: 240},
				{Threshold: 3 * time.Hour, PriceCents: 380},
				{Threshold: 4 * time.Hour, PriceCents: 520},
			},
			MaxDuration:    4 * time.Hour,
			OveragePenalty: 1700,
		},
		{
			ID:         domain.ZoneRouge,
			ActiveDays: workdays,
			Windows: []domain.TimeWindow{
				{StartMinute: 7 * 60, EndMinute: 9 * 60, ExtendedOnly: true},
				{StartMinute: 9 * 60, EndMinute: 19 * 60},
			},
			Tiers: []domain.TariffTier{
				{Threshold: time.Hour, PriceCents: 100},
				{Threshold: 90 * time.Minute, PriceCents: 200},
			},
			MaxDuration:    90 * time.Minute,
			OveragePenalty: 2500,
			Grace:          &domain.GraceRule{MaxFree: 30 * time.Minute},
		},
		{
			ID:         domain.ZoneVerte,
			ActiveDays: workdays,
			Windows:    []domain.TimeWindow{{StartMinute: 9 * 60, EndMinute: 19 * 60}},
			Tiers: []domain.TariffTier{
				{Threshold: time.Hour, PriceCents: 60},
				{Threshold: 2 * time.Hour, PriceCents: 120},
				{Threshold: 4 * time.Hour, PriceCents: 200},
				{Threshold: 9 * time.Hour, PriceCents: 300},
			},
			MaxDuration:    9 * time.Hour,
			OveragePenalty: 1700,
		},
		{
			ID:         domain.ZoneBleue,
			ActiveDays: workdays,
			Windows: []domain.TimeWindow{
				{StartMinute: 9 * 60, EndMinute: 12 * 60},
				{StartMinute: 14 * 60, EndMinute: 19 * 60},
			},
			Tiers: []domain.TariffTier{
				{Threshold: 90 * time.Minute, PriceCents: 0},
			},
			MaxDuration:  90 * time.Minute,
			FreeWithDisc: true,
		},
	}

	facilities := []*domain.Facility{
		{ID: 1, Name: "Parking Hôtel de Ville", ZoneID: domain.ZoneOrange, Capacity: 220},
		{ID: 2, Name: "Parking Gare", ZoneID: domain.ZoneRouge, Capacity: 340},
		{ID: 3, Name: "Parking Les Halles", ZoneID: domain.ZoneVerte, Capacity: 180},
	}

	c := &Catalog{
		zones:      make(map[domain.ZoneID]*domain.Zone, len(zones)),
		facilities: make(map[int64]*domain.Facility, len(facilities)),
	}
	for _, z := range zones {
		c.zones[z.ID] = z
	}
	for _, f := range facilities {
		c.facilities[f.ID] = f
	}
	return c
}

func (c *Catalog) ZoneFor(id domain.ZoneID) (*domain.Zone, error) {
	z, ok := c.zones[id]
	if !ok {
		return nil, domain.ErrUnknownZone
	}
	return z, nil
}

func (c *Catalog) Tiers(id domain.ZoneID) ([]domain.TariffTier, error) {
	z, err := c.ZoneFor(id)
	if err != nil {
		return nil, err
	}
	return z.Tiers, nil
}

func (c *Catalog) Zones() []*domain.Zone {
	out := make([]*domain.Zone, 0, len(c.zones))
	for _, id := range []domain.ZoneID{domain.ZoneJaune, domain.ZoneOrange, domain.ZoneRouge, domain.ZoneVerte, domain.ZoneBleue} {
		out = append(out, c.zones[id])
	}
	return out
}

func (c *Catalog) FacilityFor(id int64) (*domain.Facility, error) {
	f, ok := c.facilities[id]
	if !ok {
		return nil, domain.ErrUnknownZone
	}
	return f, nil
}

func (c *Catalog) Facilities() []*domain.Facility {
	out := make([]*domain.Facility, 0, len(c.facilities))
	for id := int64(1); id <= int64(len(c.facilities)); id++ {
		out = append(out, c.facilities[id])
	}
	return out
}
