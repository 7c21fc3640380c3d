// Package dates holds the calendar arithmetic behind itinerary
// scheduling: local-date parsing, day offsets, and the fixed hourly
// grid the planner UI renders. Dates are naive local days throughout;
// ISO strings are assembled from their components directly so a UTC
// round-trip can never shift the day.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// YMD is the wire format for slot dates and grid keys.
	YMD = "2006-01-02"
	// Human is the long form shown in itinerary headers.
	Human = "January 02, 2006"
	// HoursPerDay is the number of cells in one grid column.
	HoursPerDay = 24
)

// ParseLocal parses a "YYYY-MM-DD" string into a local midnight
// time.Time. It deliberately avoids time.Parse for the ISO form, which
// would yield UTC and shift the calendar day for anyone east of
// Greenwich. Full timestamps are accepted as a fallback and collapsed
// to their local day.
func ParseLocal(value string) (time.Time, error) {
	parts := strings.Split(value, "-")
	if len(parts) == 3 {
		year, err1 := strconv.Atoi(parts[0])
		month, err2 := strconv.Atoi(parts[1])
		day, err3 := strconv.Atoi(parts[2])
		if err1 == nil && err2 == nil && err3 == nil &&
			month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return Midnight(t.Local()), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
}

// Midnight normalizes t to 00:00 local on the same calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Noon pins t to 12:00 local. Persisted slot dates are stored this way
// so that serialization through UTC stays on the right day.
func Noon(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local)
}

// InRange reports whether date falls within [start, end], inclusive on
// both ends. All three are compared at day granularity.
func InRange(date, start, end time.Time) bool {
	d := Midnight(date)
	return !d.Before(Midnight(start)) && !d.After(Midnight(end))
}

// DaysBetween returns the number of whole days from start to end.
// Both ends are normalized to midnight first, so the difference is a
// whole number of calendar days give or take a DST hour; rounding
// absorbs the hour.
func DaysBetween(start, end time.Time) int {
	diff := Midnight(end).Sub(Midnight(start))
	if diff >= 0 {
		return int((diff + 12*time.Hour) / (24 * time.Hour))
	}
	return -int((-diff + 12*time.Hour) / (24 * time.Hour))
}

// AddDays returns the date n days after t. The input is not mutated;
// time.Time is a value, AddDate already copies.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// Offset re-bases oldDate from the trip starting at oldStart onto the
// trip starting at newStart, preserving the day offset within the
// trip. A slot on day 1 of the old trip lands on day 1 of the new one.
func Offset(oldDate, oldStart, newStart time.Time) time.Time {
	return AddDays(Midnight(newStart), DaysBetween(oldStart, oldDate))
}

// Range returns every calendar day from start to end inclusive, in
// ascending order. Length is always DaysBetween(start, end)+1.
func Range(start, end time.Time) []time.Time {
	var out []time.Time
	for d := Midnight(start); !d.After(Midnight(end)); d = AddDays(d, 1) {
		out = append(out, d)
	}
	return out
}

// HourSlots returns the 24 time labels of one grid column, "00:00"
// through "23:00".
func HourSlots() []string {
	slots := make([]string, 0, HoursPerDay)
	for hour := 0; hour < HoursPerDay; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
	}
	return slots
}

// IsHourSlot reports whether label is one of the fixed grid times.
func IsHourSlot(label string) bool {
	if len(label) != 5 || label[2:] != ":00" {
		return false
	}
	hour, err := strconv.Atoi(label[:2])
	return err == nil && hour >= 0 && hour < HoursPerDay
}

// FormatYMD renders t as "YYYY-MM-DD".
func FormatYMD(t time.Time) string {
	return t.Format(YMD)
}

// FormatHuman renders t the way itinerary headers display it,
// e.g. "February 06, 2026".
func FormatHuman(t time.Time) string {
	return t.Format(Human)
}

// SlotKey builds the in-memory join key between a grid cell and a
// persisted slot. Never stored.
func SlotKey(date time.Time, slotTime string) string {
	return FormatYMD(date) + "-" + slotTime
}
