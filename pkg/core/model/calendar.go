package model

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

const dateLayout = "2006-01-02"

// LocalDate is a calendar date in the team's wall-clock time.
// It is built once from the request and never re-derived from timestamps,
// so no zone conversion can move it to a neighbouring day.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewLocalDate returns a normalised date (e.g. Jan 32 becomes Feb 1)
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// LocalDateOf takes the wall-clock date of t, ignoring its location
func LocalDateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

// ParseLocalDate parses a YYYY-MM-DD string
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return LocalDate{}, errors.Newf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return LocalDateOf(t), nil
}

func (d LocalDate) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether the date is unset
func (d LocalDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Weekday returns the day of the week for the date
func (d LocalDate) Weekday() time.Weekday {
	return d.midnight().Weekday()
}

// Before reports whether d is strictly earlier than other
func (d LocalDate) Before(other LocalDate) bool {
	return d.midnight().Before(other.midnight())
}

// Equal reports whether both dates name the same day
func (d LocalDate) Equal(other LocalDate) bool {
	return d == other
}

// AddDays returns the date n days later (or earlier for negative n)
func (d LocalDate) AddDays(n int) LocalDate {
	return LocalDateOf(d.midnight().AddDate(0, 0, n))
}

// At combines the date with a clock time. The result is a naive timestamp
// expressed in UTC; 24:00 yields midnight of the following day.
func (d LocalDate) At(c ClockTime) time.Time {
	return d.midnight().Add(time.Duration(c) * time.Minute)
}

func (d LocalDate) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d LocalDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *LocalDate) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = LocalDate{}
		return nil
	}
	parsed, err := ParseLocalDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockTime is a wall-clock time of day in minutes since midnight.
// 24:00 (1440) is accepted as an end-of-day bound.
type ClockTime int

// EndOfDay is the 24:00 bound
const EndOfDay ClockTime = 24 * 60

// NewClockTime builds a clock time from hours and minutes
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS" (seconds are dropped)
func ParseClockTime(s string) (ClockTime, error) {
	if s == "24:00" || s == "24:00:00" {
		return EndOfDay, nil
	}
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewClockTime(t.Hour(), t.Minute()), nil
		}
	}
	return 0, errors.Newf("invalid time %q: expected HH:MM", s)
}

// Hour returns the hour component
func (c ClockTime) Hour() int {
	return int(c) / 60
}

// Minute returns the minute component
func (c ClockTime) Minute() int {
	return int(c) % 60
}

// CeilHour rounds up to the next whole hour (unchanged when already aligned)
func (c ClockTime) CeilHour() ClockTime {
	if c%60 == 0 {
		return c
	}
	return ClockTime((int(c)/60 + 1) * 60)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(text []byte) error {
	parsed, err := ParseClockTime(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TimeRange is a half-open interval [Start, End)
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether two half-open ranges intersect.
// Back-to-back ranges ([a,b) and [b,c)) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether other lies entirely inside r
func (r TimeRange) Contains(other TimeRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// Duration returns End - Start
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Hours returns the duration in fractional hours
func (r TimeRange) Hours() float64 {
	return r.Duration().Hours()
}
