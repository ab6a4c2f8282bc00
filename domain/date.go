package domain

import (
	"fmt"
	"time"
)

const (
	// RunDateLayout is the textual form accepted by ParseRunDate.
	RunDateLayout = "2006-01-02"

	compactLayout = "20060102"
	longLayout    = "Monday, January 02, 2006"
)

// RunDate is the calendar day a run produces content for. It has no clock
// or zone component.
type RunDate struct {
	year  int
	month time.Month
	day   int
}

// NewRunDate returns the calendar day of t in t's location.
func NewRunDate(t time.Time) RunDate {
	y, m, d := t.Date()
	return RunDate{year: y, month: m, day: d}
}

// Today returns the current local calendar day.
func Today() RunDate {
	return NewRunDate(time.Now())
}

// ParseRunDate parses a YYYY-MM-DD date.
func ParseRunDate(s string) (RunDate, error) {
	t, err := time.ParseInLocation(RunDateLayout, s, time.Local)
	if err != nil {
		return RunDate{}, fmt.Errorf("invalid run date %q: want YYYY-MM-DD: %w", s, err)
	}
	return NewRunDate(t), nil
}

// Time returns midnight of the day in the local zone.
func (d RunDate) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.Local)
}

// IsZero reports whether d is the zero RunDate.
func (d RunDate) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Compact renders the date as YYYYMMDD.
func (d RunDate) Compact() string {
	return d.Time().Format(compactLayout)
}

// Long renders the date as e.g. "Tuesday, October 07, 2025".
func (d RunDate) Long() string {
	return d.Time().Format(longLayout)
}

// String renders the date as YYYY-MM-DD.
func (d RunDate) String() string {
	return d.Time().Format(RunDateLayout)
}
