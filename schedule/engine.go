package schedule

import (
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/cyp0633/zbxmaint/internal/timeofday"
)

// MaxOccurrences bounds how many occurrences Generate returns. It also
// guarantees termination for rules whose pattern rarely or never matches.
const MaxOccurrences = 10

// Engine generates occurrences for rules, optionally caching results.
type Engine struct {
	cache    *ResultCache
	config   EngineConfig
	location *time.Location
	logger   *slog.Logger
}

// NewEngine creates an engine with DefaultEngineConfig.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// Location returns the time zone the engine places calendar days in.
func (e *Engine) Location() *time.Location {
	return e.location
}

// Occurrences returns the upcoming occurrences of rule as seen at now.
func (e *Engine) Occurrences(rule Rule, now time.Time) []Occurrence {
	if e.cache != nil {
		if cached, ok := e.cache.Get(rule, now, e.location); ok {
			e.logger.Debug("occurrence cache hit", "type", typeOf(rule), "count", len(cached))
			return cached
		}
	}

	occurrences := Generate(rule, now, e.location)
	e.logger.Debug("generated occurrences",
		"type", typeOf(rule),
		"active_since", rule.ActiveSince,
		"active_till", rule.ActiveTill,
		"count", len(occurrences))

	if e.cache != nil {
		e.cache.Set(rule, now, e.location, occurrences)
	}
	return occurrences
}

// Close releases the engine's cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

func typeOf(rule Rule) string {
	if rule.Schedule == nil {
		return "none"
	}
	return rule.Schedule.Type().String()
}

// Generate computes the upcoming occurrences of rule. Calendar days are taken
// in loc (UTC when nil). Occurrences are clipped to the half-open active
// window, those that have already ended at now are dropped, and the result is
// sorted by start and holds at most MaxOccurrences entries.
//
// Rules that cannot be expanded (no schedule, no weekday or month selected,
// non-positive interval or duration, a periodic rule without both window
// bounds) yield nil.
func Generate(rule Rule, now time.Time, loc *time.Location) []Occurrence {
	if loc == nil {
		loc = time.UTC
	}
	if rule.Schedule == nil || rule.Duration <= 0 {
		return nil
	}

	c := &collector{
		since:    rule.ActiveSince,
		till:     rule.ActiveTill,
		now:      now,
		duration: rule.Duration,
	}

	if s, ok := rule.Schedule.(OneTime); ok {
		c.add(s.Start)
		return c.result()
	}

	// Periodic rules need a closed, ordered window to iterate over.
	if rule.ActiveSince.IsZero() || rule.ActiveTill.IsZero() || !rule.ActiveTill.After(rule.ActiveSince) {
		return nil
	}

	switch s := rule.Schedule.(type) {
	case Daily:
		if s.Every < 1 || !timeofday.Valid(s.StartTime) {
			return nil
		}
		generateDaily(c, s, loc)
	case Weekly:
		if s.Every < 1 || !s.Weekdays.Any() || !timeofday.Valid(s.StartTime) {
			return nil
		}
		generateWeekly(c, s, loc)
	case Monthly:
		if !s.Months.Any() || !timeofday.Valid(s.StartTime) || !validPlacement(s.Placement) {
			return nil
		}
		generateMonthly(c, s, loc)
	}
	return c.result()
}

func generateDaily(c *collector, s Daily, loc *time.Location) {
	day := startOfDay(c.since, loc)
	for !c.full() {
		start := day.Add(seconds(s.StartTime))
		if !start.Before(c.till) {
			return
		}
		c.add(start)
		day = day.AddDate(0, 0, s.Every)
	}
}

func generateWeekly(c *collector, s Weekly, loc *time.Location) {
	week := startOfWeek(c.since, loc)
	for !c.full() && week.Before(c.till) {
		for i, on := range s.Weekdays {
			if !on {
				continue
			}
			start := week.AddDate(0, 0, i).Add(seconds(s.StartTime))
			if !start.Before(c.till) {
				return
			}
			c.add(start)
			if c.full() {
				return
			}
		}
		week = week.AddDate(0, 0, 7*s.Every)
	}
}

// generateMonthly walks whole months so that every candidate of a month is
// seen before the cap is checked; "last weekday" dates can precede other
// weekdays' dates in the same month.
func generateMonthly(c *collector, s Monthly, loc *time.Location) {
	for year := c.since.In(loc).Year(); ; year++ {
		if !time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Before(c.till) {
			return
		}
		for i, on := range s.Months {
			if !on {
				continue
			}
			first := time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, loc)
			if !first.Before(c.till) {
				return
			}
			for _, day := range monthlyDays(first, s.Placement) {
				c.add(first.AddDate(0, 0, day-1).Add(seconds(s.StartTime)))
			}
			if c.full() {
				return
			}
		}
	}
}

// monthlyDays returns the days of first's month selected by placement.
func monthlyDays(first time.Time, placement Placement) []int {
	last := daysIn(first)
	if day, ok := placement.Left(); ok {
		if int(day) > last {
			return nil
		}
		return []int{int(day)}
	}

	nth, _ := placement.Right()
	offset := WeekdayIndex(first.Weekday())
	var days []int
	for i, on := range nth.Weekdays {
		if !on {
			continue
		}
		day := 1 + (i-offset+7)%7
		if nth.Ordinal == Last {
			day += 21
			if day+7 <= last {
				day += 7
			}
		} else {
			day += int(nth.Ordinal-1) * 7
		}
		days = append(days, day)
	}
	return days
}

func validPlacement(p Placement) bool {
	if day, ok := p.Left(); ok {
		return day >= 1 && day <= 31
	}
	nth, _ := p.Right()
	return nth.Ordinal >= First && nth.Ordinal <= Last && nth.Weekdays.Any()
}

type collector struct {
	since    time.Time
	till     time.Time
	now      time.Time
	duration time.Duration
	out      []Occurrence
}

// add clips the candidate starting at start to the active window and keeps it
// unless it falls outside the window or has already ended.
func (c *collector) add(start time.Time) {
	end := start.Add(c.duration)
	if !c.since.IsZero() && start.Before(c.since) {
		start = c.since
	}
	if !c.till.IsZero() && end.After(c.till) {
		end = c.till
	}
	if !c.since.IsZero() && !end.After(c.since) {
		return
	}
	if !c.till.IsZero() && !start.Before(c.till) {
		return
	}
	if !end.After(start) || !end.After(c.now) {
		return
	}
	c.out = append(c.out, Occurrence{Start: start, End: end, Ongoing: !start.After(c.now)})
}

func (c *collector) full() bool {
	return len(c.out) >= MaxOccurrences
}

func (c *collector) result() []Occurrence {
	sort.SliceStable(c.out, func(i, j int) bool {
		return c.out[i].Start.Before(c.out[j].Start)
	})
	if len(c.out) > MaxOccurrences {
		c.out = c.out[:MaxOccurrences]
	}
	return c.out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func startOfWeek(t time.Time, loc *time.Location) time.Time {
	day := startOfDay(t, loc)
	return day.AddDate(0, 0, -WeekdayIndex(day.Weekday()))
}

func daysIn(first time.Time) int {
	return time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, first.Location()).Day()
}

func seconds(s int) time.Duration {
	return time.Duration(s) * time.Second
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
