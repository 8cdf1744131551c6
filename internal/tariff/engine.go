package tariff

import (
	"github.com/mlevasseur/stationnement/internal/domain"
)

// Price maps a zone and a resolved duration to a cost in cents.
//
// The tariff is a step function, not rate*time: the tier with the
// greatest threshold at or below the duration applies, durations below
// the smallest threshold pay the smallest tier (minimum charge), and
// anything beyond the zone's maximum adds the flat majoration on top of
// the top tier. Zone Bleue never charges; its duration limit is enforced
// by status resolution, not by price.
func Price(zone *domain.Zone, d ResolvedDuration) (domain.Cents, error) {
	if d.InProgress {
		return 0, domain.ErrCannotPriceOpenSession
	}
	if zone.FreeWithDisc {
		return 0, nil
	}

	price := zone.Tiers[0].PriceCents
	for _, tier := range zone.Tiers {
		if tier.Threshold <= d.Value {
			price = tier.PriceCents
		}
	}
	if d.Value > zone.MaxDuration {
		price = zone.Tiers[len(zone.Tiers)-1].PriceCents + zone.OveragePenalty
	}
	return price, nil
}

// GraceApplies reports whether a duration qualifies for the zone's free
// grace stay. Whether the vehicle still holds its half-day grace slot is
// the lifecycle's concern.
func GraceApplies(zone *domain.Zone, d ResolvedDuration) bool {
	return zone.Grace != nil && !d.InProgress && d.Value <= zone.Grace.MaxFree
}
