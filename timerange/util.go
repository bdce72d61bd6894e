// Copyright (c) 2025 BVK Chaitanya

package timerange

import (
	"time"
)

// midnight returns the beginning of the current day in the given zone. A nil
// zone picks the local time zone.
func midnight(zone *time.Location) time.Time {
	if zone == nil {
		zone = time.Local
	}
	now := time.Now().In(zone)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, zone)
}

func Today(zone *time.Location) *Range {
	begin := midnight(zone)
	return &Range{Begin: begin, End: begin.Add(24 * time.Hour)}
}

func Yesterday(zone *time.Location) *Range {
	end := midnight(zone)
	return &Range{Begin: end.Add(-24 * time.Hour), End: end}
}

// ThisWeek covers the current week. Weeks run from Sunday to Saturday.
func ThisWeek(zone *time.Location) *Range {
	today := midnight(zone)
	begin := today.AddDate(0, 0, -int(today.Weekday()))
	return &Range{Begin: begin, End: begin.AddDate(0, 0, 7)}
}

func LastWeek(zone *time.Location) *Range {
	end := ThisWeek(zone).Begin
	return &Range{Begin: end.AddDate(0, 0, -7), End: end}
}

func ThisMonth(zone *time.Location) *Range {
	today := midnight(zone)
	begin := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	return &Range{Begin: begin, End: begin.AddDate(0, 1, 0)}
}

func LastMonth(zone *time.Location) *Range {
	end := ThisMonth(zone).Begin
	return &Range{Begin: end.AddDate(0, -1, 0), End: end}
}

func ThisYear(zone *time.Location) *Range {
	today := midnight(zone)
	begin := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
	return &Range{Begin: begin, End: begin.AddDate(1, 0, 0)}
}

func LastYear(zone *time.Location) *Range {
	end := ThisYear(zone).Begin
	return &Range{Begin: end.AddDate(-1, 0, 0), End: end}
}
