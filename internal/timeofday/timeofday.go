// Package timeofday moves a "seconds since midnight" value between UTC and a
// fixed UTC offset, reporting when the move crosses a day boundary.
package timeofday

import "time"

// SecondsPerDay is the length of a calendar day without DST adjustment.
const SecondsPerDay = 24 * 60 * 60

// ToLocal converts UTC seconds-of-day to local seconds-of-day for the given
// offset (seconds east of UTC). dayShift is -1, 0 or +1 depending on whether
// the local time falls on the previous, same or next calendar day.
func ToLocal(utcSeconds, offsetSeconds int) (localSeconds, dayShift int) {
	return wrap(utcSeconds + offsetSeconds)
}

// ToUTC is the inverse of ToLocal.
func ToUTC(localSeconds, offsetSeconds int) (utcSeconds, dayShift int) {
	return wrap(localSeconds - offsetSeconds)
}

func wrap(raw int) (int, int) {
	switch {
	case raw < 0:
		return raw + SecondsPerDay, -1
	case raw >= SecondsPerDay:
		return raw - SecondsPerDay, 1
	default:
		return raw, 0
	}
}

// OffsetAt returns the offset of loc in effect at t, in seconds east of UTC.
// A nil location is treated as UTC.
func OffsetAt(loc *time.Location, t time.Time) int {
	if loc == nil {
		return 0
	}
	_, offset := t.In(loc).Zone()
	return offset
}

// Valid reports whether s is a seconds-of-day value in [0, SecondsPerDay).
func Valid(s int) bool {
	return s >= 0 && s < SecondsPerDay
}

// Format renders seconds-of-day as HH:MM.
func Format(s int) string {
	return time.Date(2000, 1, 1, 0, 0, s, 0, time.UTC).Format("15:04")
}

// Parse reads HH:MM (or HH:MM:SS) into seconds-of-day.
func Parse(raw string) (int, error) {
	layout := "15:04"
	if len(raw) > 5 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return 0, err
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}
