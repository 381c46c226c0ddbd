// Package timeconv converts between wall-clock times in an IANA timezone and
// UTC instants as they appear on the wire.
//
// The wire format is ISO-8601, but upstream producers are known to emit UTC
// datetimes without the trailing "Z" designator. Every string entering this
// package is normalized so that a missing zone designator means UTC, never the
// server's local zone.
package timeconv

import (
	"fmt"
	"strings"
	"time"
)

// WallClock is a calendar date and time-of-day with no embedded offset. It is
// only meaningful together with an IANA timezone name.
type WallClock struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// wallClockLayout matches the value format of an HTML datetime-local control.
const wallClockLayout = "2006-01-02T15:04"

// utcWireLayout is the outbound wire format, always with explicit Z.
const utcWireLayout = "2006-01-02T15:04:05.000Z"

// IsZero reports whether w holds no value.
func (w WallClock) IsZero() bool {
	return w == WallClock{}
}

// String renders w in datetime-local form, e.g. "2025-08-20T17:35".
func (w WallClock) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d", w.Year, w.Month, w.Day, w.Hour, w.Minute)
}

// ParseWallClock parses a datetime-local string such as "2025-08-20T17:35".
func ParseWallClock(s string) (WallClock, error) {
	t, err := time.Parse(wallClockLayout, s)
	if err != nil {
		return WallClock{}, fmt.Errorf("invalid wall-clock time %q: %w", s, err)
	}
	return WallClock{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}, nil
}

// InvalidTimezoneError reports a timezone identifier the tz database does not
// know. It is always surfaced, never silently replaced with a default zone.
type InvalidTimezoneError struct {
	Name string
	Err  error
}

func (e *InvalidTimezoneError) Error() string {
	return fmt.Sprintf("invalid timezone %q: %v", e.Name, e.Err)
}

func (e *InvalidTimezoneError) Unwrap() error { return e.Err }

// LoadLocation resolves an IANA timezone identifier, returning a typed
// InvalidTimezoneError for anything the tz database rejects.
func LoadLocation(tz string) (*time.Location, error) {
	if strings.TrimSpace(tz) == "" {
		return nil, &InvalidTimezoneError{Name: tz, Err: fmt.Errorf("empty identifier")}
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &InvalidTimezoneError{Name: tz, Err: err}
	}
	return loc, nil
}

// ParseUTC parses an ISO-8601 datetime string into an absolute instant. A
// string with no zone designator is treated as UTC; this normalization is
// mandatory because the backing store serializes UTC values without the "Z"
// suffix. An empty string parses to the zero time with no error, since "no
// date yet" is a valid state during contest creation.
func ParseUTC(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	// Some producers use a space separator instead of "T".
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}

	if !hasZoneDesignator(s) {
		s += "Z"
	}

	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", s)
}

// hasZoneDesignator reports whether the time-of-day portion of s carries a
// zone designator (Z or a numeric offset). The date portion is skipped so its
// hyphens do not count as offsets.
func hasZoneDesignator(s string) bool {
	if len(s) <= 11 {
		return false
	}
	rest := s[11:]
	return strings.ContainsAny(rest, "Zz+") || strings.Contains(rest, "-")
}

// LocalToUTC converts a wall-clock reading in the given timezone to the UTC
// instant it denotes. Zone math is delegated to the tz database via
// time.Date; during a spring-forward gap the nonexistent reading normalizes
// forward, and a fall-back repeat resolves to the earlier (daylight) offset.
func LocalToUTC(w WallClock, tz string) (time.Time, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(w.Year, time.Month(w.Month), w.Day, w.Hour, w.Minute, 0, 0, loc)
	return t.UTC(), nil
}

// UTCToLocal converts a UTC instant string to the wall-clock reading an
// observer in the given timezone would see. The input is normalized by
// ParseUTC first. An empty input yields a zero WallClock with no error.
func UTCToLocal(utc string, tz string) (WallClock, error) {
	t, err := ParseUTC(utc)
	if err != nil {
		return WallClock{}, err
	}
	if t.IsZero() {
		return WallClock{}, nil
	}
	loc, err := LoadLocation(tz)
	if err != nil {
		return WallClock{}, err
	}
	lt := t.In(loc)
	return WallClock{
		Year:   lt.Year(),
		Month:  int(lt.Month()),
		Day:    lt.Day(),
		Hour:   lt.Hour(),
		Minute: lt.Minute(),
	}, nil
}

// UTCString renders an instant in the outbound wire format with an explicit
// Z suffix, e.g. "2025-08-20T23:35:00.000Z".
func UTCString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(utcWireLayout)
}

// DisplayLayout is the default human-readable format: month/day/year, 12-hour
// time and the zone abbreviation, e.g. "Aug 20, 2025, 5:35 PM MDT".
const DisplayLayout = "Jan 2, 2006, 3:04 PM MST"

// FormatForDisplay renders a UTC instant string for display in the given
// timezone. An optional layout overrides DisplayLayout. Empty input renders
// as an empty string.
func FormatForDisplay(utc string, tz string, layout ...string) (string, error) {
	t, err := ParseUTC(utc)
	if err != nil {
		return "", err
	}
	if t.IsZero() {
		return "", nil
	}
	loc, err := LoadLocation(tz)
	if err != nil {
		return "", err
	}
	l := DisplayLayout
	if len(layout) > 0 && layout[0] != "" {
		l = layout[0]
	}
	return t.In(loc).Format(l), nil
}

// Abbreviation returns the timezone's abbreviation at the given instant, e.g.
// "MDT" in August and "MST" in January for America/Denver. The abbreviation
// is a property of the instant, not of the identifier.
func Abbreviation(tz string, at time.Time) (string, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return "", err
	}
	name, _ := at.In(loc).Zone()
	return name, nil
}
