package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendar(t *testing.T) {
	occurrences := []Occurrence{
		{Start: utc(2026, 11, 2, 1, 0), End: utc(2026, 11, 2, 2, 0)},
		{Start: utc(2026, 11, 9, 1, 0), End: utc(2026, 11, 9, 2, 0)},
		{Start: utc(2026, 11, 16, 1, 0), End: utc(2026, 11, 16, 2, 0)},
	}
	stamp := utc(2026, 10, 19, 12, 0)

	cal := Calendar("db maintenance", occurrences, stamp)

	events := cal.Events()
	require.Len(t, events, 3)

	uids := map[string]bool{}
	for i, event := range events {
		uid, err := event.Props.Text(ical.PropUID)
		require.NoError(t, err)
		uids[uid] = true

		start, err := event.DateTimeStart(time.UTC)
		require.NoError(t, err)
		assert.True(t, occurrences[i].Start.Equal(start))

		end, err := event.DateTimeEnd(time.UTC)
		require.NoError(t, err)
		assert.True(t, occurrences[i].End.Equal(end))
	}
	assert.Len(t, uids, 3, "every occurrence gets its own UID")

	again := Calendar("db maintenance", occurrences, stamp.Add(time.Hour))
	uid, _ := events[0].Props.Text(ical.PropUID)
	uidAgain, _ := again.Events()[0].Props.Text(ical.PropUID)
	assert.Equal(t, uid, uidAgain, "UIDs are stable across exports")
}

func TestEncodeCalendar(t *testing.T) {
	cal := Calendar("backup", []Occurrence{
		{Start: utc(2026, 11, 2, 1, 0), End: utc(2026, 11, 2, 2, 0)},
	}, utc(2026, 10, 19, 12, 0))

	data, err := EncodeCalendar(cal)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "BEGIN:VCALENDAR")
	assert.Contains(t, text, "BEGIN:VEVENT")
	assert.Contains(t, text, "PRODID:"+prodID)
	assert.Contains(t, text, "DTSTART:20261102T010000Z")
	assert.Contains(t, text, "X-WR-CALNAME:backup\r\n")
	assert.NotContains(t, text, "VALUE=TEXT:backup")

	name, err := cal.Props.Text(ical.PropName)
	require.NoError(t, err)
	assert.Equal(t, "backup", name)
}

func TestEncodeCalendar_EscapesName(t *testing.T) {
	cal := Calendar("db, nightly; eu", []Occurrence{
		{Start: utc(2026, 11, 2, 1, 0), End: utc(2026, 11, 2, 2, 0)},
	}, utc(2026, 10, 19, 12, 0))

	data, err := EncodeCalendar(cal)
	require.NoError(t, err)

	assert.Contains(t, string(data), `X-WR-CALNAME:db\, nightly\; eu`)
}

func TestToRRule(t *testing.T) {
	window := func(s Schedule) Rule {
		return Rule{
			ActiveSince: utc(2026, 11, 1, 0, 0),
			ActiveTill:  utc(2027, 1, 1, 0, 0),
			Period:      Period{Duration: time.Hour, Schedule: s},
		}
	}

	tests := []struct {
		name string
		rule Rule
		want []string
	}{
		{
			name: "daily",
			rule: window(Daily{Every: 3, StartTime: 5400}),
			want: []string{"FREQ=DAILY", "INTERVAL=3", "DTSTART:20261101T013000Z", "UNTIL=20261231T235959Z"},
		},
		{
			name: "weekly",
			rule: window(Weekly{Every: 2, Weekdays: NewWeekdays(time.Monday, time.Friday)}),
			want: []string{"FREQ=WEEKLY", "INTERVAL=2", "BYDAY=MO,FR"},
		},
		{
			name: "monthly by day",
			rule: window(Monthly{Months: NewMonths(time.November, time.December), Placement: OnDay(15)}),
			want: []string{"FREQ=MONTHLY", "BYMONTH=11,12", "BYMONTHDAY=15"},
		},
		{
			name: "monthly last friday",
			rule: window(Monthly{Months: NewMonths(time.December), Placement: OnWeekdays(Last, NewWeekdays(time.Friday))}),
			want: []string{"FREQ=MONTHLY", "BYMONTH=12", "BYDAY=-1FR"},
		},
		{
			name: "one time",
			rule: window(OneTime{Start: utc(2026, 11, 20, 22, 0)}),
			want: []string{"COUNT=1", "DTSTART:20261120T220000Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToRRule(tt.rule, time.UTC)
			require.NoError(t, err)
			for _, part := range tt.want {
				assert.True(t, strings.Contains(got, part), "%q not in %q", part, got)
			}
		})
	}
}

func TestToRRule_NoSchedule(t *testing.T) {
	_, err := ToRRule(Rule{}, nil)
	assert.Error(t, err)
}
