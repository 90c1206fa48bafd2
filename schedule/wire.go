package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/mo"
)

var (
	// ErrUnknownType is returned for a timeperiod_type outside 0, 2, 3, 4.
	ErrUnknownType = errors.New("unknown timeperiod type")
	// ErrAmbiguousPlacement is returned for a monthly period that sets both
	// or neither of day and dayofweek.
	ErrAmbiguousPlacement = errors.New("monthly period must set exactly one of day and dayofweek")
)

// Int is an integer field of the monitoring API. Responses carry numbers as
// JSON strings; requests may use plain numbers.
type Int int64

func (i *Int) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*i = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*i = 0
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("failed to parse integer %q: %w", data, err)
	}
	*i = Int(v)
	return nil
}

// WireTimeperiod is one element of a maintenance's timeperiods.
type WireTimeperiod struct {
	TimeperiodType Int `json:"timeperiod_type"`
	StartDate      Int `json:"start_date,omitempty"`
	Period         Int `json:"period"`
	Every          Int `json:"every,omitempty"`
	DayOfWeek      Int `json:"dayofweek,omitempty"`
	Month          Int `json:"month,omitempty"`
	Day            Int `json:"day,omitempty"`
	StartTime      Int `json:"start_time,omitempty"`
}

// WireHost references a host by id.
type WireHost struct {
	HostID string `json:"hostid"`
}

// WireGroup references a host group by id.
type WireGroup struct {
	GroupID string `json:"groupid"`
}

// WireMaintenance is the maintenance record exchanged with the monitoring
// API. MaintenanceID is empty for records that have not been created yet.
type WireMaintenance struct {
	MaintenanceID   string           `json:"maintenanceid,omitempty"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	MaintenanceType Int              `json:"maintenance_type"`
	ActiveSince     Int              `json:"active_since"`
	ActiveTill      Int              `json:"active_till"`
	Timeperiods     []WireTimeperiod `json:"timeperiods"`
	Hosts           []WireHost       `json:"hosts,omitempty"`
	Groups          []WireGroup      `json:"groups,omitempty"`
}

const (
	maintenanceWithData    = 0
	maintenanceWithoutData = 1
)

// DecodeTimeperiods converts each wire timeperiod into a Period with UTC start
// times. Periods that cannot be represented are reported individually.
func DecodeTimeperiods(w WireMaintenance) []mo.Result[Period] {
	out := make([]mo.Result[Period], 0, len(w.Timeperiods))
	for _, tp := range w.Timeperiods {
		out = append(out, decodeTimeperiod(tp))
	}
	return out
}

func decodeTimeperiod(tp WireTimeperiod) mo.Result[Period] {
	p := Period{Duration: time.Duration(tp.Period) * time.Second}
	startTime := int(tp.StartTime)
	every := int(tp.Every)
	if every == 0 {
		every = 1
	}

	switch RecurrenceType(tp.TimeperiodType) {
	case OneTimeType:
		p.Schedule = OneTime{Start: time.Unix(int64(tp.StartDate), 0).UTC()}
	case DailyType:
		p.Schedule = Daily{Every: every, StartTime: startTime}
	case WeeklyType:
		p.Schedule = Weekly{Every: every, Weekdays: WeekdaysFromBits(int(tp.DayOfWeek)), StartTime: startTime}
	case MonthlyType:
		hasDay, hasWeekdays := tp.Day != 0, tp.DayOfWeek != 0
		if hasDay == hasWeekdays {
			return mo.Err[Period](fmt.Errorf("%w (day=%d, dayofweek=%d)", ErrAmbiguousPlacement, tp.Day, tp.DayOfWeek))
		}
		placement := OnDay(int(tp.Day))
		if hasWeekdays {
			placement = OnWeekdays(Ordinal(every), WeekdaysFromBits(int(tp.DayOfWeek)))
		}
		p.Schedule = Monthly{Months: MonthsFromBits(int(tp.Month)), Placement: placement, StartTime: startTime}
	default:
		return mo.Err[Period](fmt.Errorf("%w: %d", ErrUnknownType, tp.TimeperiodType))
	}
	return mo.Ok(p)
}

// DecodeMaintenance is the read path: it converts a wire record into a
// Maintenance whose start times are local to offsetSeconds east of UTC.
// notRepresentable is true when any period's day pattern could not follow
// the time zone shift.
func DecodeMaintenance(w WireMaintenance, offsetSeconds int) (m Maintenance, notRepresentable bool, err error) {
	m = Maintenance{
		ID:             mo.EmptyableToOption(w.MaintenanceID),
		Name:           w.Name,
		Description:    w.Description,
		DataCollection: w.MaintenanceType == maintenanceWithData,
		ActiveSince:    time.Unix(int64(w.ActiveSince), 0).UTC(),
		ActiveTill:     time.Unix(int64(w.ActiveTill), 0).UTC(),
	}
	for _, h := range w.Hosts {
		m.HostIDs = append(m.HostIDs, h.HostID)
	}
	for _, g := range w.Groups {
		m.GroupIDs = append(m.GroupIDs, g.GroupID)
	}

	for i, res := range DecodeTimeperiods(w) {
		p, err := res.Get()
		if err != nil {
			return Maintenance{}, false, fmt.Errorf("failed to decode timeperiod %d: %w", i, err)
		}
		local, shifted := Localize(p, offsetSeconds)
		notRepresentable = notRepresentable || shifted
		m.Periods = append(m.Periods, local)
	}
	return m, notRepresentable, nil
}

// EncodeMaintenance is the write path: it converts a Maintenance with local
// start times into a wire record with UTC start times.
func EncodeMaintenance(m Maintenance, offsetSeconds int) (w WireMaintenance, notRepresentable bool) {
	w = WireMaintenance{
		MaintenanceID: m.ID.OrEmpty(),
		Name:          m.Name,
		Description:   m.Description,
		ActiveSince:   Int(m.ActiveSince.Unix()),
		ActiveTill:    Int(m.ActiveTill.Unix()),
		Timeperiods:   make([]WireTimeperiod, 0, len(m.Periods)),
	}
	if !m.DataCollection {
		w.MaintenanceType = maintenanceWithoutData
	}
	for _, id := range m.HostIDs {
		w.Hosts = append(w.Hosts, WireHost{HostID: id})
	}
	for _, id := range m.GroupIDs {
		w.Groups = append(w.Groups, WireGroup{GroupID: id})
	}

	for _, p := range m.Periods {
		utc, shifted := Globalize(p, offsetSeconds)
		notRepresentable = notRepresentable || shifted
		w.Timeperiods = append(w.Timeperiods, encodeTimeperiod(utc))
	}
	return w, notRepresentable
}

func encodeTimeperiod(p Period) WireTimeperiod {
	tp := WireTimeperiod{Period: Int(p.Duration / time.Second)}
	switch s := p.Schedule.(type) {
	case OneTime:
		tp.TimeperiodType = Int(OneTimeType)
		tp.StartDate = Int(s.Start.Unix())
	case Daily:
		tp.TimeperiodType = Int(DailyType)
		tp.Every = Int(s.Every)
		tp.StartTime = Int(s.StartTime)
	case Weekly:
		tp.TimeperiodType = Int(WeeklyType)
		tp.Every = Int(s.Every)
		tp.DayOfWeek = Int(s.Weekdays.Bits())
		tp.StartTime = Int(s.StartTime)
	case Monthly:
		tp.TimeperiodType = Int(MonthlyType)
		tp.Month = Int(s.Months.Bits())
		tp.StartTime = Int(s.StartTime)
		if day, ok := s.Placement.Left(); ok {
			tp.Day = Int(day)
		} else {
			nth, _ := s.Placement.Right()
			tp.Every = Int(nth.Ordinal)
			tp.DayOfWeek = Int(nth.Weekdays.Bits())
		}
	}
	return tp
}
