package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/cyp0633/zbxmaint/internal/bitfield"
	"github.com/cyp0633/zbxmaint/internal/timeofday"
)

// RecurrenceType identifies the kind of a maintenance period. The numeric
// values are the monitoring API's timeperiod_type codes.
type RecurrenceType int

const (
	OneTimeType RecurrenceType = 0
	DailyType   RecurrenceType = 2
	WeeklyType  RecurrenceType = 3
	MonthlyType RecurrenceType = 4
)

func (t RecurrenceType) String() string {
	switch t {
	case OneTimeType:
		return "one-time"
	case DailyType:
		return "daily"
	case WeeklyType:
		return "weekly"
	case MonthlyType:
		return "monthly"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Weekdays is a weekday selection, index 0 = Monday .. 6 = Sunday.
type Weekdays [7]bool

// NewWeekdays builds a selection from Go weekdays.
func NewWeekdays(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w[WeekdayIndex(d)] = true
	}
	return w
}

// WeekdaysFromBits decodes a dayofweek mask.
func WeekdaysFromBits(bits int) Weekdays {
	var w Weekdays
	copy(w[:], bitfield.Decode(bits, len(w)))
	return w
}

// Bits encodes the selection as a dayofweek mask.
func (w Weekdays) Bits() int { return bitfield.Encode(w[:]) }

// Any reports whether at least one weekday is selected.
func (w Weekdays) Any() bool { return bitfield.Count(w[:]) > 0 }

// Has reports whether d is selected.
func (w Weekdays) Has(d time.Weekday) bool { return w[WeekdayIndex(d)] }

// Shift rotates the selection by n days: with n = 1 Monday becomes Tuesday
// and Sunday becomes Monday.
func (w Weekdays) Shift(n int) Weekdays {
	var out Weekdays
	for i, on := range w {
		if on {
			out[((i+n)%7+7)%7] = true
		}
	}
	return out
}

func (w Weekdays) String() string {
	var names []string
	for i, on := range w {
		if on {
			names = append(names, weekdayAt(i).String()[:3])
		}
	}
	return strings.Join(names, ",")
}

// WeekdayIndex maps a Go weekday onto the Monday-first index used by Weekdays.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func weekdayAt(i int) time.Weekday {
	return time.Weekday((i + 1) % 7)
}

// Months is a month selection, index 0 = January .. 11 = December.
type Months [12]bool

// NewMonths builds a selection from Go months.
func NewMonths(months ...time.Month) Months {
	var m Months
	for _, month := range months {
		if month >= time.January && month <= time.December {
			m[month-1] = true
		}
	}
	return m
}

// MonthsFromBits decodes a month mask.
func MonthsFromBits(bits int) Months {
	var m Months
	copy(m[:], bitfield.Decode(bits, len(m)))
	return m
}

// Bits encodes the selection as a month mask.
func (m Months) Bits() int { return bitfield.Encode(m[:]) }

// Any reports whether at least one month is selected.
func (m Months) Any() bool { return bitfield.Count(m[:]) > 0 }

// Has reports whether month is selected.
func (m Months) Has(month time.Month) bool {
	return month >= time.January && month <= time.December && m[month-1]
}

func (m Months) String() string {
	var names []string
	for i, on := range m {
		if on {
			names = append(names, time.Month(i + 1).String()[:3])
		}
	}
	return strings.Join(names, ",")
}

// Schedule is the recurrence-specific part of a period. The implementations
// are OneTime, Daily, Weekly and Monthly; no other type satisfies it.
type Schedule interface {
	Type() RecurrenceType
	isSchedule()
}

// OneTime is a single window starting at Start.
type OneTime struct {
	Start time.Time
}

// Daily repeats every Every days at StartTime (seconds since local midnight).
type Daily struct {
	Every     int
	StartTime int
}

// Weekly repeats on the selected weekdays of every Every-th week.
type Weekly struct {
	Every     int
	Weekdays  Weekdays
	StartTime int
}

// DayOfMonth places a monthly occurrence on a fixed day, 1..31.
type DayOfMonth int

// Ordinal selects which occurrence of a weekday within a month is used.
type Ordinal int

const (
	First  Ordinal = 1
	Second Ordinal = 2
	Third  Ordinal = 3
	Fourth Ordinal = 4
	Last   Ordinal = 5
)

func (o Ordinal) String() string {
	switch o {
	case First:
		return "first"
	case Second:
		return "second"
	case Third:
		return "third"
	case Fourth:
		return "fourth"
	case Last:
		return "last"
	default:
		return fmt.Sprintf("ordinal(%d)", int(o))
	}
}

// NthWeekday places monthly occurrences on the Ordinal-th instance of each
// selected weekday.
type NthWeekday struct {
	Ordinal  Ordinal
	Weekdays Weekdays
}

// Placement chooses between the two monthly modes. Left is "day of month",
// Right is "Nth weekday of month".
type Placement = mo.Either[DayOfMonth, NthWeekday]

// OnDay returns a day-of-month placement.
func OnDay(day int) Placement {
	return mo.Left[DayOfMonth, NthWeekday](DayOfMonth(day))
}

// OnWeekdays returns an Nth-weekday placement.
func OnWeekdays(ordinal Ordinal, weekdays Weekdays) Placement {
	return mo.Right[DayOfMonth, NthWeekday](NthWeekday{Ordinal: ordinal, Weekdays: weekdays})
}

// Monthly repeats in the selected months, placed by Placement.
type Monthly struct {
	Months    Months
	Placement Placement
	StartTime int
}

func (OneTime) Type() RecurrenceType { return OneTimeType }
func (Daily) Type() RecurrenceType   { return DailyType }
func (Weekly) Type() RecurrenceType  { return WeeklyType }
func (Monthly) Type() RecurrenceType { return MonthlyType }

func (OneTime) isSchedule() {}
func (Daily) isSchedule()   {}
func (Weekly) isSchedule()  {}
func (Monthly) isSchedule() {}

func (s OneTime) String() string {
	return "once at " + s.Start.Format(time.RFC3339)
}

func (s Daily) String() string {
	return fmt.Sprintf("every %d day(s) at %s", s.Every, timeofday.Format(s.StartTime))
}

func (s Weekly) String() string {
	return fmt.Sprintf("every %d week(s) on %s at %s", s.Every, s.Weekdays, timeofday.Format(s.StartTime))
}

func (s Monthly) String() string {
	if day, ok := s.Placement.Left(); ok {
		return fmt.Sprintf("day %d of %s at %s", day, s.Months, timeofday.Format(s.StartTime))
	}
	nth, _ := s.Placement.Right()
	return fmt.Sprintf("%s %s of %s at %s", nth.Ordinal, nth.Weekdays, s.Months, timeofday.Format(s.StartTime))
}

// Period is one timeperiod of a maintenance: how long each occurrence lasts
// and how occurrences recur.
type Period struct {
	Duration time.Duration
	Schedule Schedule
}

// Rule is a period bound to the active window of its maintenance. It is the
// unit the generator and the validator work on.
type Rule struct {
	ActiveSince time.Time
	ActiveTill  time.Time
	Period
}

// Maintenance groups the periods that share one active window. ID is absent
// until the maintenance has been created remotely.
type Maintenance struct {
	ID             mo.Option[string]
	Name           string
	Description    string
	DataCollection bool
	ActiveSince    time.Time
	ActiveTill     time.Time
	HostIDs        []string
	GroupIDs       []string
	Periods        []Period
}

// Rules binds every period to the maintenance's active window.
func (m Maintenance) Rules() []Rule {
	rules := make([]Rule, 0, len(m.Periods))
	for _, p := range m.Periods {
		rules = append(rules, Rule{ActiveSince: m.ActiveSince, ActiveTill: m.ActiveTill, Period: p})
	}
	return rules
}

// Occurrence is one concrete maintenance window.
type Occurrence struct {
	Start   time.Time
	End     time.Time
	Ongoing bool
}
