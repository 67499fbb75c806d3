package gamification

import (
	"sort"
	"time"
)

// Streak is the number of consecutive calendar days with activity.
type Streak struct {
	Current int
	Longest int
}

// ComputeStreak counts runs of consecutive calendar days. The current
// streak is the most recent run, and only counts when its last day is the
// reference day or the day before.
func ComputeStreak(dates []time.Time, reference time.Time) Streak {
	if len(dates) == 0 {
		return Streak{}
	}

	seen := make(map[int64]struct{}, len(dates))
	days := make([]int64, 0, len(dates))
	for _, d := range dates {
		n := dayNumber(d)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		days = append(days, n)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })

	longest, run, recent := 1, 1, 0
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] == 1 {
			run++
		} else {
			if recent == 0 {
				recent = run
			}
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if recent == 0 {
		recent = run
	}

	current := 0
	if dayNumber(reference)-days[0] <= 1 {
		current = recent
	}
	return Streak{Current: current, Longest: longest}
}

// dayNumber is the calendar date of t, in t's own location, as days since
// the Unix epoch.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
