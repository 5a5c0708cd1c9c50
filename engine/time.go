package engine

import (
	"time"
)

// =============================================================================
// DAY POINT - Calendar-day granular instant
// =============================================================================

// DayPoint is a calendar day. All date comparisons in the engine are
// day-granular: sub-day components are discarded on construction.
type DayPoint struct {
	Time time.Time
}

// NewDayPoint constructs a DayPoint at UTC midnight.
func NewDayPoint(year int, month time.Month, day int) DayPoint {
	return DayPoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayPointOf truncates a time.Time to its calendar day.
func DayPointOf(t time.Time) DayPoint {
	return NewDayPoint(t.Year(), t.Month(), t.Day())
}

// Comparison
func (d DayPoint) Before(other DayPoint) bool { return d.normalize().Before(other.normalize()) }
func (d DayPoint) Equal(other DayPoint) bool  { return d.normalize().Equal(other.normalize()) }
func (d DayPoint) After(other DayPoint) bool  { return d.normalize().After(other.normalize()) }
func (d DayPoint) IsZero() bool               { return d.Time.IsZero() }

func (d DayPoint) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d DayPoint) AddDays(n int) DayPoint { return DayPoint{Time: d.normalize().AddDate(0, 0, n)} }

func (d DayPoint) String() string { return d.normalize().Format("2006-01-02") }

// ParseDayPoint parses a YYYY-MM-DD string.
func ParseDayPoint(s string) (DayPoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return DayPoint{}, err
	}
	return DayPointOf(t), nil
}

// DaysBetween returns the whole-day difference to - from. Negative when
// 'to' precedes 'from'. This is the sole time-arithmetic primitive the
// higher-level calculators depend on.
func DaysBetween(from, to DayPoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
