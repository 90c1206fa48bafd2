package schedule

import (
	"github.com/cyp0633/zbxmaint/internal/timeofday"
)

// Localize converts a period whose start times are UTC seconds-of-day (the
// wire representation) into local seconds-of-day for offsetSeconds east of
// UTC.
//
// When the conversion crosses midnight the weekday or day-of-month pattern is
// moved along with it, but only for patterns that repeat on every single
// day/week (or on the first weekday of the month). For other intervals the
// first occurrence would land on a different calendar position than later
// ones, so the pattern is left untouched and notRepresentable is true.
func Localize(p Period, offsetSeconds int) (local Period, notRepresentable bool) {
	return convertPeriod(p, offsetSeconds, timeofday.ToLocal)
}

// Globalize is the inverse of Localize: local seconds-of-day to UTC.
func Globalize(p Period, offsetSeconds int) (utc Period, notRepresentable bool) {
	return convertPeriod(p, offsetSeconds, timeofday.ToUTC)
}

type convertFunc func(seconds, offsetSeconds int) (int, int)

func convertPeriod(p Period, offset int, convert convertFunc) (Period, bool) {
	switch s := p.Schedule.(type) {
	case Daily:
		var shift int
		s.StartTime, shift = convert(s.StartTime, offset)
		p.Schedule = s
		return p, shift != 0 && s.Every != 1

	case Weekly:
		var shift int
		s.StartTime, shift = convert(s.StartTime, offset)
		notRepresentable := false
		if shift != 0 {
			if s.Every == 1 {
				s.Weekdays = s.Weekdays.Shift(shift)
			} else {
				notRepresentable = true
			}
		}
		p.Schedule = s
		return p, notRepresentable

	case Monthly:
		var shift int
		s.StartTime, shift = convert(s.StartTime, offset)
		notRepresentable := false
		if shift != 0 {
			if day, ok := s.Placement.Left(); ok {
				s.Placement = OnDay(clampDay(int(day) + shift))
			} else {
				nth, _ := s.Placement.Right()
				if nth.Ordinal == First {
					s.Placement = OnWeekdays(nth.Ordinal, nth.Weekdays.Shift(shift))
				} else {
					notRepresentable = true
				}
			}
		}
		p.Schedule = s
		return p, notRepresentable

	default:
		// One-time periods carry an absolute instant.
		return p, false
	}
}

func clampDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 31 {
		return 31
	}
	return day
}
