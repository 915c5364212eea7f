package utils

import (
	"fmt"
	"time"
)

// eventDateLayout is the only accepted wire format for event dates.
const eventDateLayout = "2006-01-02"

// ParseEventDate parses a YYYY-MM-DD literal into a calendar date. Wrong
// field counts, non-numeric components and invalid calendar values such as
// month 13 all return an error instead of aborting the request handler.
func ParseEventDate(s string) (time.Time, error) {
	t, err := time.Parse(eventDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatEventDate renders a date back into the wire format.
func FormatEventDate(t time.Time) string {
	return t.Format(eventDateLayout)
}
