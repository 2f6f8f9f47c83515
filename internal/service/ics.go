package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/AfopeM/nawalingo/internal/availability"
)

// ── iCalendar import / export ──────────────────────────────
//
// Import keeps only weekly recurring events (FREQ=WEEKLY, INTERVAL=1).
// Each BYDAY value, or the DTSTART weekday when BYDAY is absent, becomes one
// window in the event's TZID (UTC for "Z" times, defaultTZ when floating).
// Export writes one weekly VEVENT per window starting at its next occurrence.
// ────────────────────────────────────────────────────────────

const icsMaxFileSize = 1 << 20

var icsDays = [availability.DaysPerWeek]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

var errNoWeeklyEvents = errors.New("calendar has no weekly events")

// ParseAvailabilityICS reads weekly windows from a calendar; events that do
// not describe a weekly window inside one day are skipped. A calendar that
// yields no window at all is an error so an import never clears by accident.
func ParseAvailabilityICS(r io.Reader, defaultTZ string) ([]availability.Window, error) {
	cal, err := ics.ParseCalendar(io.LimitReader(r, icsMaxFileSize))
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}
	if defaultTZ == "" {
		defaultTZ = defaultTimezone
	}

	seen := make(map[availability.Window]struct{})
	out := make([]availability.Window, 0)
	for _, evt := range cal.Events() {
		for _, w := range eventWindows(evt, defaultTZ) {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return nil, errNoWeeklyEvents
	}
	return out, nil
}

func eventWindows(evt *ics.VEvent, defaultTZ string) []availability.Window {
	rruleProp := evt.GetProperty(ics.ComponentPropertyRrule)
	if rruleProp == nil {
		return nil
	}
	rule := parseRRule(rruleProp.Value)
	if rule.freq != "WEEKLY" || rule.interval != 1 {
		return nil
	}

	start, tz, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, defaultTZ)
	if err != nil {
		return nil
	}
	end, _, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, defaultTZ)
	if err != nil {
		durProp := evt.GetProperty(ics.ComponentProperty(ics.PropertyDuration))
		if durProp == nil {
			return nil
		}
		d, ok := parseICSDuration(durProp.Value)
		if !ok {
			return nil
		}
		end = start.Add(d)
	}
	if !sameDay(start, end) {
		return nil
	}

	days := rule.byDay
	if len(days) == 0 {
		days = []int{int(start.Weekday())}
	}

	out := make([]availability.Window, 0, len(days))
	for _, day := range days {
		w := availability.Window{
			DayOfWeek:   day,
			StartMinute: start.Hour()*60 + start.Minute(),
			EndMinute:   end.Hour()*60 + end.Minute(),
			Timezone:    tz,
			Active:      true,
		}
		if availability.Valid(w) {
			out = append(out, w)
		}
	}
	return out
}

// BuildAvailabilityICS renders windows as a weekly recurring calendar
func BuildAvailabilityICS(calName, uidPrefix string, now time.Time, ws []availability.Window) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Nawalingo//Tutor Availability//EN")
	cal.SetXWRCalName(calName)

	for _, w := range ws {
		if !w.Active || !availability.Valid(w) {
			continue
		}
		startUTC := availability.NextOccurrence(now, w)
		duration := time.Duration(w.EndMinute-w.StartMinute) * time.Minute

		uid := fmt.Sprintf("%s-%d-%d-%d@nawalingo", uidPrefix, w.DayOfWeek, w.StartMinute, w.EndMinute)
		event := cal.AddEvent(uid)
		event.SetDtStampTime(now)
		event.SetSummary(calName)

		tz := w.Timezone
		if tz == "" || strings.EqualFold(tz, "UTC") {
			event.SetStartAt(startUTC)
			event.SetEndAt(startUTC.Add(duration))
		} else if loc, err := time.LoadLocation(tz); err == nil {
			local := startUTC.In(loc)
			tzid := &ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{tz}}
			event.SetProperty(ics.ComponentPropertyDtStart, local.Format("20060102T150405"), tzid)
			event.SetProperty(ics.ComponentPropertyDtEnd, local.Add(duration).Format("20060102T150405"), tzid)
		} else {
			event.SetStartAt(startUTC)
			event.SetEndAt(startUTC.Add(duration))
		}
		event.AddRrule("FREQ=WEEKLY;BYDAY=" + icsDays[w.DayOfWeek])
	}

	return cal.Serialize()
}

// ── helpers ──

type rruleParams struct {
	freq     string
	interval int
	byDay    []int
}

// parseRRule reads FREQ, INTERVAL and BYDAY from e.g. FREQ=WEEKLY;BYDAY=MO,WE
func parseRRule(value string) rruleParams {
	r := rruleParams{interval: 1}
	for _, part := range strings.Split(value, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(k) {
		case "FREQ":
			r.freq = strings.ToUpper(v)
		case "INTERVAL":
			if n, err := strconv.Atoi(v); err == nil {
				r.interval = n
			}
		case "BYDAY":
			for _, d := range strings.Split(strings.ToUpper(v), ",") {
				// ordinal prefixes such as 1MO are monthly forms; keep the day
				d = strings.TrimLeft(d, "+-0123456789")
				for i, name := range icsDays {
					if d == name {
						r.byDay = append(r.byDay, i)
					}
				}
			}
		}
	}
	return r
}

// parseICSDateTime returns the wall-clock time in its own zone and that
// zone's name
func parseICSDateTime(evt *ics.VEvent, propName ics.ComponentProperty, defaultTZ string) (time.Time, string, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, "", fmt.Errorf("missing property %s", propName)
	}
	val := prop.Value

	tzid := ""
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			tzid = v[0]
		}
	}

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.UTC(), "UTC", nil
	}
	t, err := time.Parse("20060102T150405", val)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("unsupported date %q", val)
	}

	name := defaultTZ
	if tzid != "" {
		name = tzid
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		name, loc = defaultTimezone, time.UTC
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc), name, nil
}

// parseICSDuration handles the time forms PT#H#M and PT#M
func parseICSDuration(v string) (time.Duration, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if !strings.HasPrefix(v, "PT") {
		return 0, false
	}
	d, err := time.ParseDuration(strings.ToLower(strings.TrimPrefix(v, "PT")))
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
