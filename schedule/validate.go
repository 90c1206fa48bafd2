package schedule

import (
	"fmt"
	"time"

	"github.com/cyp0633/zbxmaint/internal/timeofday"
)

// Violation names the rule a maintenance period breaks.
type Violation string

const (
	ViolationNoSchedule       Violation = "schedule_missing"
	ViolationDuration         Violation = "duration_not_positive"
	ViolationInterval         Violation = "interval_not_positive"
	ViolationOrdinal          Violation = "week_of_month_out_of_range"
	ViolationDayOfMonth       Violation = "day_of_month_out_of_range"
	ViolationNoWeekday        Violation = "no_weekday_selected"
	ViolationNoMonth          Violation = "no_month_selected"
	ViolationTimeOfDay        Violation = "time_of_day_out_of_range"
	ViolationWindowOrder      Violation = "active_till_not_after_active_since"
	ViolationStartsInPast     Violation = "active_since_in_past"
	ViolationSpansTransition  Violation = "window_spans_dst_transition"
	ViolationOneTimeEndInPast Violation = "one_time_ends_in_past"
)

// ValidationError reports the first violation found in a rule.
type ValidationError struct {
	Violation Violation
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Violation, e.Message)
}

func violation(v Violation, format string, args ...any) error {
	return &ValidationError{Violation: v, Message: fmt.Sprintf(format, args...)}
}

// ValidateOptions supplies the ambient inputs of Validate.
type ValidateOptions struct {
	Now      time.Time
	Location *time.Location
}

// Validate checks rule for internal consistency. It returns nil when the rule
// can be saved, or a *ValidationError naming the first violation. The rule is
// never modified.
func Validate(rule Rule, opts ValidateOptions) error {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	if rule.Schedule == nil {
		return violation(ViolationNoSchedule, "period has no schedule")
	}
	if rule.Duration <= 0 {
		return violation(ViolationDuration, "duration must be positive, got %s", rule.Duration)
	}

	if err := validateSchedule(rule.Schedule); err != nil {
		return err
	}

	if s, ok := rule.Schedule.(OneTime); ok {
		end := s.Start.Add(rule.Duration)
		if !end.After(now) {
			return violation(ViolationOneTimeEndInPast, "window ends at %s, which is in the past", end.In(loc).Format(time.RFC3339))
		}
		return nil
	}

	if !rule.ActiveTill.After(rule.ActiveSince) {
		return violation(ViolationWindowOrder, "active till %s must be after active since %s",
			rule.ActiveTill.In(loc).Format(time.DateOnly), rule.ActiveSince.In(loc).Format(time.DateOnly))
	}
	if startOfDay(rule.ActiveSince, loc).Before(startOfDay(now, loc)) {
		return violation(ViolationStartsInPast, "active since %s is in the past",
			rule.ActiveSince.In(loc).Format(time.DateOnly))
	}

	transition := NextDSTTransition(now, loc)
	if spansTransition(rule.ActiveSince, rule.ActiveTill, transition) {
		return violation(ViolationSpansTransition, "active window crosses the daylight saving transition at %s",
			transition.Format(time.RFC3339))
	}
	return nil
}

func validateSchedule(s Schedule) error {
	switch s := s.(type) {
	case Daily:
		if s.Every < 1 {
			return violation(ViolationInterval, "every must be at least 1, got %d", s.Every)
		}
		return validateStartTime(s.StartTime)
	case Weekly:
		if s.Every < 1 {
			return violation(ViolationInterval, "every must be at least 1, got %d", s.Every)
		}
		if !s.Weekdays.Any() {
			return violation(ViolationNoWeekday, "at least one weekday must be selected")
		}
		return validateStartTime(s.StartTime)
	case Monthly:
		if !s.Months.Any() {
			return violation(ViolationNoMonth, "at least one month must be selected")
		}
		if day, ok := s.Placement.Left(); ok {
			if day < 1 || day > 31 {
				return violation(ViolationDayOfMonth, "day of month must be within 1..31, got %d", day)
			}
		} else {
			nth, _ := s.Placement.Right()
			if nth.Ordinal < First || nth.Ordinal > Last {
				return violation(ViolationOrdinal, "week of month must be within 1..5, got %d", nth.Ordinal)
			}
			if !nth.Weekdays.Any() {
				return violation(ViolationNoWeekday, "at least one weekday must be selected")
			}
		}
		return validateStartTime(s.StartTime)
	}
	return nil
}

func validateStartTime(s int) error {
	if !timeofday.Valid(s) {
		return violation(ViolationTimeOfDay, "start time must be within 0..%d seconds, got %d", timeofday.SecondsPerDay-1, s)
	}
	return nil
}
