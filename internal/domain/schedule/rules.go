// internal/domain/schedule/rules.go
package schedule

import "time"

// Exclusions maps a tracked weekday to the day-of-month numbers that are NOT available.
type Exclusions map[time.Weekday][]int

// Rules is the static availability table the schedule is derived from.
type Rules struct {
	Start time.Time // first date considered, inclusive
	End   time.Time // last date considered, inclusive

	// UnavailableUntil marks [Start, UnavailableUntil) as having no availability at all.
	UnavailableUntil time.Time

	TrackedWeekdays []time.Weekday
	Months          map[time.Month]Exclusions
}

// DefaultRules returns the availability table for December 2025 through December 2026.
func DefaultRules() Rules {
	return Rules{
		Start:            Date(2025, time.December, 1),
		End:              Date(2026, time.December, 31),
		UnavailableUntil: Date(2026, time.June, 1),
		TrackedWeekdays:  []time.Weekday{time.Monday, time.Wednesday},
		Months: map[time.Month]Exclusions{
			time.June:      {time.Monday: {24}, time.Wednesday: {24}},
			time.July:      {time.Monday: nil, time.Wednesday: nil},
			time.August:    {time.Monday: {26}, time.Wednesday: {26}},
			time.September: {time.Monday: DaysExcept(1, 30, 7, 28), time.Wednesday: {23}},
			time.October:   {time.Monday: {12}, time.Wednesday: {28}},
			time.November:  {time.Monday: nil, time.Wednesday: {11, 25}},
			time.December:  {time.Monday: {28}, time.Wednesday: {23, 30}},
		},
	}
}

// IsUnavailable reports whether d falls in the leading span with no availability.
func (r Rules) IsUnavailable(d time.Time) bool {
	return !Truncate(d).Before(r.Start) && Truncate(d).Before(r.UnavailableUntil)
}

func (r Rules) tracks(wd time.Weekday) bool {
	for _, t := range r.TrackedWeekdays {
		if t == wd {
			return true
		}
	}
	return false
}

// DaysExcept lists every day in [from, to] except the given keep days.
func DaysExcept(from, to int, keep ...int) []int {
	kept := make(map[int]struct{}, len(keep))
	for _, k := range keep {
		kept[k] = struct{}{}
	}
	days := make([]int, 0, to-from+1)
	for d := from; d <= to; d++ {
		if _, ok := kept[d]; !ok {
			days = append(days, d)
		}
	}
	return days
}

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping its calendar date in UTC.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}
