// Package availability holds the pure weekly-window arithmetic behind tutor
// search: overlap matching, next-slot projection and HH:MM conversion.
package availability

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	MinutesPerDay = 24 * 60
	MaxMinute     = MinutesPerDay - 1
	DaysPerWeek   = 7
)

// Window a recurring weekly interval.
// DayOfWeek 0 = Sunday … 6 = Saturday; minutes are 0–1439 in Timezone.
type Window struct {
	DayOfWeek   int
	StartMinute int
	EndMinute   int
	Timezone    string
	Active      bool
}

// Query caller-supplied day/time filter
type Query struct {
	DayOfWeek   int
	StartMinute int
	EndMinute   int
}

// ── overlap ──

// Valid reports whether w is storable: a known day and start strictly
// before end inside one day. Windows crossing midnight are not supported.
func Valid(w Window) bool {
	return w.DayOfWeek >= 0 && w.DayOfWeek < DaysPerWeek &&
		w.StartMinute >= 0 && w.EndMinute <= MaxMinute &&
		w.StartMinute < w.EndMinute
}

// Overlaps reports whether an active window touches the query on the same day.
// Bounds are inclusive on both sides.
func Overlaps(w Window, q Query) bool {
	if !w.Active || w.DayOfWeek != q.DayOfWeek {
		return false
	}
	return w.StartMinute <= q.EndMinute && w.EndMinute >= q.StartMinute
}

// WindowsOverlap symmetric overlap between two stored windows, ignoring the
// active flag.
func WindowsOverlap(a, b Window) bool {
	if a.DayOfWeek != b.DayOfWeek {
		return false
	}
	return a.StartMinute <= b.EndMinute && a.EndMinute >= b.StartMinute
}

// AnyOverlap reports whether any window matches q
func AnyOverlap(ws []Window, q Query) bool {
	for _, w := range ws {
		if Overlaps(w, q) {
			return true
		}
	}
	return false
}

// Matching returns the windows that match q, in input order
func Matching(ws []Window, q Query) []Window {
	out := make([]Window, 0)
	for _, w := range ws {
		if Overlaps(w, q) {
			out = append(out, w)
		}
	}
	return out
}

// ── next slot ──

var locCache sync.Map // name → *time.Location

// location resolves an IANA zone name, falling back to UTC
func location(name string) *time.Location {
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC
	}
	if v, ok := locCache.Load(name); ok {
		return v.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = time.UTC
	}
	locCache.Store(name, loc)
	return loc
}

// NextOccurrence projects w onto the week containing now (in the window's
// timezone) and moves it one week ahead when that instant is already past.
// The result is in UTC.
func NextOccurrence(now time.Time, w Window) time.Time {
	loc := location(w.Timezone)
	local := now.In(loc)
	weekStart := local.Day() - int(local.Weekday())

	hour, minute := w.StartMinute/60, w.StartMinute%60
	candidate := time.Date(local.Year(), local.Month(), weekStart+w.DayOfWeek, hour, minute, 0, 0, loc)
	if candidate.Before(now) {
		candidate = time.Date(local.Year(), local.Month(), weekStart+w.DayOfWeek+DaysPerWeek, hour, minute, 0, 0, loc)
	}
	return candidate.UTC()
}

// NextStart returns the soonest upcoming start across the active, valid
// windows, or nil when there is none.
func NextStart(now time.Time, ws []Window) *time.Time {
	var best *time.Time
	for _, w := range ws {
		if !w.Active || !Valid(w) {
			continue
		}
		t := NextOccurrence(now, w)
		if best == nil || t.Before(*best) {
			best = &t
		}
	}
	return best
}

// ── conversions ──

var dayNames = [DaysPerWeek]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// NumberToDayName 0 → "Sunday"; empty string when out of range
func NumberToDayName(day int) string {
	if day < 0 || day >= DaysPerWeek {
		return ""
	}
	return dayNames[day]
}

// DayNameToNumber accepts full or three-letter English day names, any case
func DayNameToNumber(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, d := range dayNames {
		if strings.EqualFold(name, d) || (len(name) == 3 && strings.EqualFold(name, d[:3])) {
			return i, true
		}
	}
	return 0, false
}

// TimeStringToMinutes parses "HH:MM" (24h) into minutes since midnight
func TimeStringToMinutes(s string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// MinutesToTimeString formats minutes since midnight as "HH:MM"
func MinutesToTimeString(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > MaxMinute {
		minutes = MaxMinute
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FromSlot builds a window from a day name and HH:MM bounds.
// ok is false when any part fails to parse or the result is not Valid.
func FromSlot(day, start, end, timezone string) (Window, bool) {
	d, ok := DayNameToNumber(day)
	if !ok {
		return Window{}, false
	}
	s, ok := TimeStringToMinutes(start)
	if !ok {
		return Window{}, false
	}
	e, ok := TimeStringToMinutes(end)
	if !ok {
		return Window{}, false
	}
	if timezone == "" {
		timezone = "UTC"
	}
	w := Window{DayOfWeek: d, StartMinute: s, EndMinute: e, Timezone: timezone, Active: true}
	if !Valid(w) {
		return Window{}, false
	}
	return w, true
}
