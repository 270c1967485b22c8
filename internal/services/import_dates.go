package services

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Tried in order; the first layout that parses wins. Month-first is tried
// before day-first, so ambiguous values like 03/04/2025 resolve to March 4.
// Month and day accept one or two digits in every layout.
var timestampLayouts = []string{
	"1/2/2006 15:04",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2/1/2006 15:04",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

// ParseTimestamp never fails: unparseable input is logged and replaced by now().
func ParseTimestamp(raw string, location *time.Location, now func() time.Time) time.Time {
	if location == nil {
		location = time.UTC
	}
	value := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, value, location)
		if err == nil {
			return parsed
		}
	}

	log.Warn().Str("value", raw).Msg("could not parse timestamp, using current time")
	if now == nil {
		return time.Now().In(location)
	}
	return now().In(location)
}

// CombineDateAndClock places a time-of-day string on the calendar date of day.
func CombineDateAndClock(day time.Time, clock string) (time.Time, bool) {
	value := strings.TrimSpace(clock)
	for _, layout := range clockLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		year, month, date := day.Date()
		return time.Date(year, month, date, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, day.Location()), true
	}
	return time.Time{}, false
}
