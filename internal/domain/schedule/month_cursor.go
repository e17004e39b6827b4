// internal/domain/schedule/month_cursor.go
package schedule

import "time"

// MonthCursor returns the first day of every month between start and end, in order.
func MonthCursor(start, end time.Time) []time.Time {
	months := make([]time.Time, 0)
	last := Date(end.Year(), end.Month(), 1)
	for m := Date(start.Year(), start.Month(), 1); !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// SeenSlots accumulates the slots already announced during one month sweep.
// A fresh value must be used for every cycle.
type SeenSlots map[time.Time]struct{}

func NewSeenSlots() SeenSlots {
	return make(SeenSlots)
}

// Unseen returns the slots not yet in the set, preserving order.
func (s SeenSlots) Unseen(slots []time.Time) []time.Time {
	out := make([]time.Time, 0, len(slots))
	for _, d := range slots {
		if _, ok := s[Truncate(d)]; !ok {
			out = append(out, d)
		}
	}
	return out
}

func (s SeenSlots) Mark(slots []time.Time) {
	for _, d := range slots {
		s[Truncate(d)] = struct{}{}
	}
}
