package models

import "time"

// DaysPerWeek is the length of an archive bucket.
const DaysPerWeek = 7

// DateOf returns the calendar date of t as observed in loc, expressed as
// midnight UTC. All dates stored by the mission engine use this form so they
// compare with == and serialize without zone drift.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday on or before date. date must already be a
// calendar date (see DateOf).
func WeekStart(date time.Time) time.Time {
	// Weekday: Sunday=0 ... Saturday=6; shift so Monday=0.
	offset := (int(date.Weekday()) + 6) % DaysPerWeek
	return date.AddDate(0, 0, -offset)
}

// WeekEnd returns the Sunday closing the week that starts at weekStart.
func WeekEnd(weekStart time.Time) time.Time {
	return weekStart.AddDate(0, 0, DaysPerWeek-1)
}
