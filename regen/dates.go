package regen

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the layout dates are published in, e.g. "5 March 2024".
const DateLayout = "2 January 2006"

// ISODate is the layout dates are written in.
const ISODate = "2006-01-02"

// ParseDate parses a date cell with DateLayout, falling back to
// dateparse's format detection. ok is false when neither succeeds.
func ParseDate(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
		return t, true
	}
	return time.Time{}, false
}
