package domain

import "time"

type ZoneID string

const (
	ZoneJaune  ZoneID = "JAUNE"
	ZoneOrange ZoneID = "ORANGE"
	ZoneRouge  ZoneID = "ROUGE"
	ZoneVerte  ZoneID = "VERTE"
	ZoneBleue  ZoneID = "BLEUE"
)

func (z ZoneID) Label() string {
	switch z {
	case ZoneJaune:
		return "Zone Jaune"
	case ZoneOrange:
		return "Zone Orange"
	case ZoneRouge:
		return "Zone Rouge"
	case ZoneVerte:
		return "Zone Verte"
	case ZoneBleue:
		return "Zone Bleue"
	default:
		return string(z)
	}
}

// TimeWindow is a paid/regulated interval within a day, minutes from midnight.
type TimeWindow struct {
	StartMinute int
	EndMinute   int
	// ExtendedOnly marks a window that applies only to designated spaces
	// (the early window of Zone Rouge).
	ExtendedOnly bool
}

func (w TimeWindow) Contains(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= w.StartMinute && m < w.EndMinute
}

// TariffTier is one step of a zone's step-function tariff. The tier
// with the greatest threshold at or below the duration applies;
// durations below the smallest threshold pay the smallest tier.
type TariffTier struct {
	Threshold  time.Duration
	PriceCents Cents
}

// GraceRule grants one free short stay per vehicle per half-day.
type GraceRule struct {
	MaxFree time.Duration
}

// Zone is a static tariff zone definition. Instances live in the catalog
// and are never mutated after process start.
type Zone struct {
	ID             ZoneID
	ActiveDays     []time.Weekday
	Windows        []TimeWindow
	MaxDuration    time.Duration
	Tiers          []TariffTier // strictly increasing by threshold
	OveragePenalty Cents        // majoration, charged on top of the top tier
	Grace          *GraceRule   // nil everywhere except Zone Rouge
	FreeWithDisc   bool         // Zone Bleue: never charged
}

// RegulatedAt reports whether the zone tariff applies at the given
// instant. Extended-only windows count: over-regulating a designated
// space is the caller's concern, not the catalog's.
func (z *Zone) RegulatedAt(t time.Time) bool {
	day := false
	for _, d := range z.ActiveDays {
		if t.Weekday() == d {
			day = true
			break
		}
	}
	if !day {
		return false
	}
	for _, w := range z.Windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// Facility is an off-street parking structure. Pricing follows the tariff
// of the zone the facility sits in.
type Facility struct {
	ID       int64
	Name     string
	ZoneID   ZoneID
	Capacity int
}
