package schedule

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const prodID = "-//github.com/cyp0633/zbxmaint//NONSGML v1.0//EN"

// uidNamespace scopes the name-based UUIDs used as VEVENT UIDs so that the
// same occurrence exported twice keeps its UID.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/cyp0633/zbxmaint"))

var textEscaper = strings.NewReplacer(`\`, `\\`, ";", `\;`, ",", `\,`, "\n", `\n`)

var rruleWeekdays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// ToROption renders rule as an RRULE option set. DTSTART is the first
// candidate start in loc and UNTIL is the last second of the active window.
func ToROption(rule Rule, loc *time.Location) (rrule.ROption, error) {
	if loc == nil {
		loc = time.UTC
	}
	opt := rrule.ROption{Wkst: rrule.MO}
	if !rule.ActiveTill.IsZero() {
		opt.Until = rule.ActiveTill.Add(-time.Second).In(loc)
	}
	day := startOfDay(rule.ActiveSince, loc)

	switch s := rule.Schedule.(type) {
	case OneTime:
		opt.Freq = rrule.DAILY
		opt.Count = 1
		opt.Dtstart = s.Start.In(loc)
		opt.Until = time.Time{}
	case Daily:
		opt.Freq = rrule.DAILY
		opt.Interval = s.Every
		opt.Dtstart = day.Add(seconds(s.StartTime))
	case Weekly:
		opt.Freq = rrule.WEEKLY
		opt.Interval = s.Every
		opt.Byweekday = byWeekday(s.Weekdays, 0)
		opt.Dtstart = day.Add(seconds(s.StartTime))
	case Monthly:
		opt.Freq = rrule.MONTHLY
		opt.Dtstart = day.Add(seconds(s.StartTime))
		for i, on := range s.Months {
			if on {
				opt.Bymonth = append(opt.Bymonth, i+1)
			}
		}
		if d, ok := s.Placement.Left(); ok {
			opt.Bymonthday = []int{int(d)}
		} else {
			nth, _ := s.Placement.Right()
			n := int(nth.Ordinal)
			if nth.Ordinal == Last {
				n = -1
			}
			opt.Byweekday = byWeekday(nth.Weekdays, n)
		}
	default:
		return rrule.ROption{}, errors.New("rule has no schedule")
	}
	return opt, nil
}

func byWeekday(w Weekdays, n int) []rrule.Weekday {
	var out []rrule.Weekday
	for i, on := range w {
		if !on {
			continue
		}
		if n == 0 {
			out = append(out, rruleWeekdays[i])
		} else {
			out = append(out, rruleWeekdays[i].Nth(n))
		}
	}
	return out
}

// ToRRule renders rule as "DTSTART:...\nRRULE:..." text.
func ToRRule(rule Rule, loc *time.Location) (string, error) {
	opt, err := ToROption(rule, loc)
	if err != nil {
		return "", err
	}
	r, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("failed to build RRULE: %w", err)
	}
	return r.String(), nil
}

// Calendar builds a VCALENDAR with one VEVENT per occurrence. stamp is used
// as DTSTAMP of every event.
func Calendar(name string, occurrences []Occurrence, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	if name != "" {
		cal.Props.SetText(ical.PropName, name)
		// Set verbatim: SetText would add VALUE=TEXT to an unknown X- property.
		calName := ical.NewProp("X-WR-CALNAME")
		calName.Value = textEscaper.Replace(name)
		cal.Props.Set(calName)
	}

	for _, o := range occurrences {
		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, occurrenceUID(name, o).String())
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDateTime(ical.PropDateTimeStart, o.Start.UTC())
		event.Props.SetDateTime(ical.PropDateTimeEnd, o.End.UTC())
		event.Props.SetText(ical.PropSummary, name)
		cal.Children = append(cal.Children, event.Component)
	}
	return cal
}

// EncodeCalendar serializes cal in iCalendar format.
func EncodeCalendar(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func occurrenceUID(name string, o Occurrence) uuid.UUID {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprintf("%s|%d|%d", name, o.Start.Unix(), o.End.Unix())))
}
