// internal/domain/schedule/schedule.go
package schedule

import (
	"slices"
	"time"
)

// Schedule is the immutable set of available dates computed once per process.
type Schedule struct {
	dates map[time.Time]struct{}
}

// Generate derives the available dates from rules. It is pure: identical rules yield identical schedules.
func Generate(rules Rules) *Schedule {
	s := &Schedule{dates: make(map[time.Time]struct{})}
	end := Truncate(rules.End)
	for d := Truncate(rules.Start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if rules.IsUnavailable(d) {
			continue
		}
		excl, ok := rules.Months[d.Month()]
		if !ok || !rules.tracks(d.Weekday()) {
			continue
		}
		if slices.Contains(excl[d.Weekday()], d.Day()) {
			continue
		}
		s.dates[d] = struct{}{}
	}
	return s
}

// FromDates builds a schedule from an explicit list of dates.
func FromDates(dates ...time.Time) *Schedule {
	s := &Schedule{dates: make(map[time.Time]struct{}, len(dates))}
	for _, d := range dates {
		s.dates[Truncate(d)] = struct{}{}
	}
	return s
}

// Len returns the number of available dates.
func (s *Schedule) Len() int { return len(s.dates) }

// Contains reports whether d is an available date.
func (s *Schedule) Contains(d time.Time) bool {
	_, ok := s.dates[Truncate(d)]
	return ok
}

// Dates returns every available date, ascending.
func (s *Schedule) Dates() []time.Time {
	return s.filter(func(time.Time) bool { return true })
}

// InMonth returns the available dates of the given month, ascending.
func (s *Schedule) InMonth(year int, month time.Month) []time.Time {
	return s.filter(func(d time.Time) bool { return d.Year() == year && d.Month() == month })
}

// Before returns the available dates strictly earlier than ref, ascending.
func (s *Schedule) Before(ref time.Time) []time.Time {
	ref = Truncate(ref)
	return s.filter(func(d time.Time) bool { return d.Before(ref) })
}

func (s *Schedule) filter(keep func(time.Time) bool) []time.Time {
	out := make([]time.Time, 0)
	for d := range s.dates {
		if keep(d) {
			out = append(out, d)
		}
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}
