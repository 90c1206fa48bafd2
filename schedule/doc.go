/*
Package schedule computes concrete maintenance windows from the recurring
maintenance periods of a monitoring API and converts those periods to and from
the API's compact wire format.

# Model

A Maintenance has one active window [ActiveSince, ActiveTill) and any number
of Periods. Each Period has a Duration and a Schedule, which is exactly one of
OneTime, Daily, Weekly or Monthly. A Monthly schedule places its occurrences
either on a fixed day of the month or on the Nth weekday of the month:

	rule := schedule.Rule{
		ActiveSince: since,
		ActiveTill:  till,
		Period: schedule.Period{
			Duration: 2 * time.Hour,
			Schedule: schedule.Monthly{
				Months:    schedule.NewMonths(time.March, time.September),
				Placement: schedule.OnWeekdays(schedule.Last, schedule.NewWeekdays(time.Friday)),
				StartTime: 22 * 3600,
			},
		},
	}

# Read and write paths

The wire format stores start times as UTC seconds-of-day and weekday/month
selections as bitmasks. DecodeMaintenance converts a WireMaintenance to local
time for a given UTC offset; EncodeMaintenance is the inverse. Both report
when a shift across midnight could not be reflected in the day pattern.

# Generation and validation

Generate (or Engine.Occurrences, which adds caching) returns at most
MaxOccurrences upcoming occurrences in start order. Validate checks a rule
before it is saved and returns a *ValidationError naming the violated rule.
Neither panics on incomplete input, so both can run against rules that are
still being edited.
*/
package schedule
