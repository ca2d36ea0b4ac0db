// Package timeparse parses the human-friendly duration and timestamp
// strings the CLI accepts, such as "1week", "3day12h" or
// "2024-01-15 10:30:00".
package timeparse

import (
	"fmt"
	"strconv"
	"time"
)

// ParseError describes a malformed duration or timestamp input.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

// unitSuffixes maps duration unit names to their length. Longer names
// must be matched before their prefixes ("weeks" before "w").
var unitSuffixes = []struct {
	name string
	unit time.Duration
}{
	{"seconds", time.Second},
	{"second", time.Second},
	{"secs", time.Second},
	{"sec", time.Second},
	{"s", time.Second},
	{"minutes", time.Minute},
	{"minute", time.Minute},
	{"mins", time.Minute},
	{"min", time.Minute},
	{"m", time.Minute},
	{"hours", time.Hour},
	{"hour", time.Hour},
	{"hrs", time.Hour},
	{"hr", time.Hour},
	{"h", time.Hour},
	{"days", 24 * time.Hour},
	{"day", 24 * time.Hour},
	{"d", 24 * time.Hour},
	{"weeks", 7 * 24 * time.Hour},
	{"week", 7 * 24 * time.Hour},
	{"w", 7 * 24 * time.Hour},
}

// ParseDuration parses a relative duration written as one or more
// "<number><unit>" segments, optionally separated by spaces. Units are
// s, m, h, day and week (with common spellings). The duration is
// resolved against "now" by the caller at the moment of the operation.
func ParseDuration(input string) (time.Duration, error) {
	s := input
	if s == "" {
		return 0, &ParseError{Input: input, Reason: "empty duration"}
	}

	var total time.Duration
	parsedAny := false
	for len(s) > 0 {
		// Skip separators between segments.
		if s[0] == ' ' {
			s = s[1:]
			continue
		}

		digits := 0
		for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
			digits++
		}
		if digits == 0 {
			return 0, &ParseError{Input: input, Reason: fmt.Sprintf("expected a number at %q", s)}
		}
		n, err := strconv.ParseInt(s[:digits], 10, 64)
		if err != nil {
			return 0, &ParseError{Input: input, Reason: fmt.Sprintf("number out of range: %q", s[:digits])}
		}
		s = s[digits:]

		unitLen := 0
		var unit time.Duration
		for _, u := range unitSuffixes {
			if len(s) >= len(u.name) && s[:len(u.name)] == u.name {
				unitLen = len(u.name)
				unit = u.unit
				break
			}
		}
		if unitLen == 0 {
			return 0, &ParseError{Input: input, Reason: fmt.Sprintf("unknown unit at %q", s)}
		}
		s = s[unitLen:]

		segment := time.Duration(n) * unit
		if n != 0 && segment/unit != time.Duration(n) {
			return 0, &ParseError{Input: input, Reason: "duration overflows"}
		}
		total += segment
		parsedAny = true
	}

	if !parsedAny {
		return 0, &ParseError{Input: input, Reason: "empty duration"}
	}
	return total, nil
}

// FormatDuration renders a duration the way ParseDuration reads it,
// using the largest whole units first ("1week2day3h"). Negative
// durations clamp to "0s"; ParseDuration cannot read them back.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	out := ""
	for _, step := range []struct {
		name string
		unit time.Duration
	}{
		{"week", 7 * 24 * time.Hour},
		{"day", 24 * time.Hour},
		{"h", time.Hour},
		{"m", time.Minute},
		{"s", time.Second},
	} {
		if n := d / step.unit; n > 0 {
			out += fmt.Sprintf("%d%s", n, step.name)
			d -= n * step.unit
		}
	}
	if out == "" {
		// Sub-second remainder only.
		return d.String()
	}
	return out
}

// timestampLayouts are tried in order by ParseTimestamp. Layouts
// without a zone are interpreted in the local time zone.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an absolute timestamp. Accepted formats are
// RFC 3339, "YYYY-MM-DD HH:MM:SS" and "YYYY-MM-DD" (midnight).
func ParseTimestamp(input string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, input, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Input: input, Reason: "unrecognized timestamp format"}
}
