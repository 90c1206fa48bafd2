package schedule

import "time"

// NextDSTTransition returns the daylight-saving change that follows now.
//
// This is a fixed heuristic, not a time zone database lookup: the candidates
// are the last Sunday of March and the last Sunday of October of now's year,
// then the last Sunday of March of the following year, each at local
// midnight in loc. The last Sunday of a month is found as the Monday of the
// ISO week that contains the first day of the next month, minus one day.
func NextDSTTransition(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)
	year := now.Year()

	candidates := []time.Time{
		lastSundayOf(year, time.March, loc),
		lastSundayOf(year, time.October, loc),
		lastSundayOf(year+1, time.March, loc),
	}
	for _, c := range candidates {
		if c.After(now) {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

func lastSundayOf(year int, month time.Month, loc *time.Location) time.Time {
	next := time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
	isoMonday := next.AddDate(0, 0, -WeekdayIndex(next.Weekday()))
	return isoMonday.AddDate(0, 0, -1)
}

// spansTransition reports whether the half-open window [since, till) strictly
// contains the transition instant.
func spansTransition(since, till, transition time.Time) bool {
	return since.Before(transition) && till.After(transition)
}
