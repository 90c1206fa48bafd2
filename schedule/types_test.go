package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdays(t *testing.T) {
	w := NewWeekdays(time.Monday, time.Sunday)

	assert.Equal(t, 65, w.Bits())
	assert.Equal(t, w, WeekdaysFromBits(65))
	assert.True(t, w.Has(time.Sunday))
	assert.False(t, w.Has(time.Tuesday))
	assert.True(t, w.Any())
	assert.False(t, Weekdays{}.Any())
	assert.Equal(t, "Mon,Sun", w.String())
}

func TestWeekdays_Shift(t *testing.T) {
	tests := []struct {
		name  string
		in    Weekdays
		shift int
		want  Weekdays
	}{
		{"forward", NewWeekdays(time.Monday, time.Sunday), 1, NewWeekdays(time.Monday, time.Tuesday)},
		{"backward", NewWeekdays(time.Monday), -1, NewWeekdays(time.Sunday)},
		{"none", NewWeekdays(time.Wednesday), 0, NewWeekdays(time.Wednesday)},
		{"full week", NewWeekdays(time.Friday), 7, NewWeekdays(time.Friday)},
		{"empty", Weekdays{}, 1, Weekdays{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Shift(tt.shift))
		})
	}
}

func TestWeekdayIndex(t *testing.T) {
	assert.Equal(t, 0, WeekdayIndex(time.Monday))
	assert.Equal(t, 6, WeekdayIndex(time.Sunday))
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayIndex(weekdayAt(i)))
	}
}

func TestMonths(t *testing.T) {
	m := NewMonths(time.January, time.March, time.December)

	assert.Equal(t, 0x805, m.Bits())
	assert.Equal(t, m, MonthsFromBits(0x805))
	assert.True(t, m.Has(time.December))
	assert.False(t, m.Has(time.February))
	assert.Equal(t, "Jan,Mar,Dec", m.String())
	assert.False(t, Months{}.Any())
}

func TestScheduleString(t *testing.T) {
	tests := []struct {
		schedule Schedule
		want     string
	}{
		{Daily{Every: 2, StartTime: 5400}, "every 2 day(s) at 01:30"},
		{Weekly{Every: 1, Weekdays: NewWeekdays(time.Tuesday), StartTime: 0}, "every 1 week(s) on Tue at 00:00"},
		{Monthly{Months: NewMonths(time.May), Placement: OnDay(31), StartTime: 3600}, "day 31 of May at 01:00"},
		{Monthly{Months: NewMonths(time.May), Placement: OnWeekdays(Last, NewWeekdays(time.Friday)), StartTime: 3600}, "last Fri of May at 01:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.schedule.(interface{ String() string }).String())
		})
	}
}

func TestMaintenance_Rules(t *testing.T) {
	m := Maintenance{
		ActiveSince: utc(2026, 11, 1, 0, 0),
		ActiveTill:  utc(2026, 12, 1, 0, 0),
		Periods: []Period{
			{Duration: time.Hour, Schedule: Daily{Every: 1}},
			{Duration: time.Minute, Schedule: OneTime{Start: utc(2026, 11, 5, 0, 0)}},
		},
	}

	rules := m.Rules()

	assert.Len(t, rules, 2)
	for i, r := range rules {
		assert.Equal(t, m.ActiveSince, r.ActiveSince)
		assert.Equal(t, m.ActiveTill, r.ActiveTill)
		assert.Equal(t, m.Periods[i], r.Period)
	}
}
