package types

import "time"

// Date layouts accepted across the collections. Timestamps carry a time of
// day; habit entries carry a bare date. Both parse as calendar dates.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

// ParseDate parses a cell value as a calendar date, accepting either the
// bare-date or the full-timestamp layout.
func ParseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(TimestampLayout, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
