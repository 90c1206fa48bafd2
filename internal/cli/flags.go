package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cyp0633/zbxmaint/internal/timeofday"
	"github.com/cyp0633/zbxmaint/schedule"
)

const dateLayout = "2006-01-02"

// RuleFlags describes one maintenance period on the command line. Times are
// local to the configured time zone.
type RuleFlags struct {
	Type     string        `short:"t" help:"Recurrence type (once|daily|weekly|monthly)." enum:"once,daily,weekly,monthly" default:"weekly"`
	Every    int           `help:"Interval in days or weeks." default:"1"`
	Weekdays string        `short:"w" help:"Comma-separated weekdays, e.g. mon,fri."`
	Months   string        `short:"m" help:"Comma-separated months, e.g. jan,jul. Defaults to all."`
	Day      int           `help:"Day of month for monthly rules."`
	Ordinal  string        `help:"Week of month for monthly weekday rules (first|second|third|fourth|last)."`
	Start    string        `short:"s" help:"Start time of day (HH:MM)." default:"00:00"`
	At       string        `help:"Start of a one-time window (YYYY-MM-DD HH:MM)."`
	Duration time.Duration `short:"d" help:"Length of each window." default:"1h"`
	Since    string        `help:"First day of the active window (YYYY-MM-DD). Defaults to today."`
	Till     string        `help:"Day after the last day of the active window (YYYY-MM-DD). Defaults to 30 days after since."`
}

// Rule builds the rule the flags describe, in loc, with today taken from now.
func (f *RuleFlags) Rule(loc *time.Location, now time.Time) (schedule.Rule, error) {
	rule := schedule.Rule{Period: schedule.Period{Duration: f.Duration}}

	today := now.In(loc)
	since := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	if f.Since != "" {
		d, err := time.ParseInLocation(dateLayout, f.Since, loc)
		if err != nil {
			return rule, fmt.Errorf("invalid --since: %w", err)
		}
		since = d
	}
	till := since.AddDate(0, 0, 30)
	if f.Till != "" {
		d, err := time.ParseInLocation(dateLayout, f.Till, loc)
		if err != nil {
			return rule, fmt.Errorf("invalid --till: %w", err)
		}
		till = d
	}

	startTime, err := timeofday.Parse(f.Start)
	if err != nil {
		return rule, fmt.Errorf("invalid --start: %w", err)
	}

	switch f.Type {
	case "once":
		if f.At == "" {
			return rule, fmt.Errorf("--at is required for one-time rules")
		}
		at, err := time.ParseInLocation(dateLayout+" 15:04", f.At, loc)
		if err != nil {
			return rule, fmt.Errorf("invalid --at: %w", err)
		}
		rule.Schedule = schedule.OneTime{Start: at.UTC()}
		return rule, nil
	case "daily":
		rule.Schedule = schedule.Daily{Every: f.Every, StartTime: startTime}
	case "weekly":
		weekdays, err := parseWeekdays(f.Weekdays)
		if err != nil {
			return rule, err
		}
		rule.Schedule = schedule.Weekly{Every: f.Every, Weekdays: weekdays, StartTime: startTime}
	case "monthly":
		months, err := parseMonths(f.Months)
		if err != nil {
			return rule, err
		}
		placement, err := f.placement()
		if err != nil {
			return rule, err
		}
		rule.Schedule = schedule.Monthly{Months: months, Placement: placement, StartTime: startTime}
	default:
		return rule, fmt.Errorf("invalid recurrence type: %s", f.Type)
	}

	rule.ActiveSince = since.UTC()
	rule.ActiveTill = till.UTC()
	return rule, nil
}

func (f *RuleFlags) placement() (schedule.Placement, error) {
	if f.Ordinal == "" {
		return schedule.OnDay(f.Day), nil
	}
	if f.Day != 0 {
		return schedule.Placement{}, fmt.Errorf("--day and --ordinal are mutually exclusive")
	}
	ordinal, err := parseOrdinal(f.Ordinal)
	if err != nil {
		return schedule.Placement{}, err
	}
	weekdays, err := parseWeekdays(f.Weekdays)
	if err != nil {
		return schedule.Placement{}, err
	}
	return schedule.OnWeekdays(ordinal, weekdays), nil
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday, "thu": time.Thursday,
	"fri": time.Friday, "sat": time.Saturday, "sun": time.Sunday,
}

func parseWeekdays(s string) (schedule.Weekdays, error) {
	var days []time.Weekday
	for _, part := range splitList(s) {
		d, ok := weekdayNames[part[:min(3, len(part))]]
		if !ok {
			return schedule.Weekdays{}, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, d)
	}
	return schedule.NewWeekdays(days...), nil
}

func parseMonths(s string) (schedule.Months, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return schedule.MonthsFromBits(1<<12 - 1), nil
	}
	var months []time.Month
	for _, part := range parts {
		found := false
		for m := time.January; m <= time.December; m++ {
			if strings.HasPrefix(strings.ToLower(m.String()), part) && len(part) >= 3 {
				months = append(months, m)
				found = true
				break
			}
		}
		if !found {
			return schedule.Months{}, fmt.Errorf("invalid month: %s", part)
		}
	}
	return schedule.NewMonths(months...), nil
}

func parseOrdinal(s string) (schedule.Ordinal, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for o := schedule.First; o <= schedule.Last; o++ {
		if o.String() == s {
			return o, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ordinal: %s", s)
	}
	return schedule.Ordinal(n), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
