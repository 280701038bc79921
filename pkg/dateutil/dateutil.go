package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Age returns completed years of age at atDate.
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// YearReached returns the calendar year in which a person born on birthDate turns age.
func YearReached(birthDate time.Time, age int) int {
	return birthDate.Year() + age
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// ParseDate accepts ISO dates, RFC 3339 timestamps and US-style dates.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: expected YYYY-MM-DD", s)
}
