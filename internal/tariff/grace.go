package tariff

import (
	"fmt"
	"time"
)

// HalfDayBucket names the grace bucket an instant belongs to, e.g.
// "2026-08-29:AM". The boundary hour splits the day in two and comes
// from configuration.
func HalfDayBucket(t time.Time, boundaryHour int) string {
	half := "AM"
	if t.Hour() >= boundaryHour {
		half = "PM"
	}
	return fmt.Sprintf("%s:%s", t.Format("2006-01-02"), half)
}
