// Package businessday pins the definition of "today" to one fixed
// organizational timezone. Clients punching in from other timezones must
// never shift which calendar day a record lands on.
package businessday

import (
	"os"
	"time"
)

const (
	// DateLayout is the canonical work-date form stored and queried on.
	DateLayout = "2006-01-02"

	defaultTimezone = "Asia/Tokyo"
)

var location *time.Location

func init() {
	tz := os.Getenv("BUSINESS_TIMEZONE")
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.FixedZone("JST", 9*3600)
	}
	location = loc
}

// Location returns the fixed business timezone.
func Location() *time.Location {
	return location
}

// DateOf formats an instant as a work date in the business timezone.
func DateOf(t time.Time) string {
	return t.In(location).Format(DateLayout)
}

// Today returns the current work date in the business timezone.
func Today() string {
	return DateOf(time.Now())
}

// ParseDate validates a YYYY-MM-DD work date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, location)
}
