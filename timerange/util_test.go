// Copyright (c) 2025 BVK Chaitanya

package timerange

import (
	"testing"
	"time"
)

func TestZeroRange(t *testing.T) {
	var r Range
	if !r.IsZero() {
		t.Fatal("wanted a zero range")
	}
	if !r.InRange(time.Now()) || !r.InRange(time.Time{}) {
		t.Fatal("wanted a zero range to match every time")
	}
}

func TestToday(t *testing.T) {
	today := Today(time.UTC)
	now := time.Now().In(time.UTC)

	if !today.InRange(now) {
		t.Fatalf("wanted %v inside today's range %+v", now, today)
	}
	if !today.InRange(today.Begin) {
		t.Fatal("wanted the begin boundary included")
	}
	if today.InRange(today.End) {
		t.Fatal("wanted the end boundary excluded")
	}
	if d := today.Duration(); d != 24*time.Hour {
		t.Fatalf("wanted 24h, got %v", d)
	}
}

func TestYesterday(t *testing.T) {
	today, yesterday := Today(time.UTC), Yesterday(time.UTC)
	if !yesterday.End.Equal(today.Begin) {
		t.Fatalf("wanted yesterday to end where today begins, got %+v and %+v", yesterday, today)
	}
	if yesterday.InRange(time.Now()) {
		t.Fatalf("wanted the current time outside yesterday's range %+v", yesterday)
	}
}

func TestNamedRanges(t *testing.T) {
	now := time.Now().In(time.UTC)

	current := map[string]*Range{
		"ThisWeek":  ThisWeek(time.UTC),
		"ThisMonth": ThisMonth(time.UTC),
		"ThisYear":  ThisYear(time.UTC),
	}
	for name, r := range current {
		if !r.InRange(now) {
			t.Errorf("%s: wanted %v inside %+v", name, now, r)
		}
	}

	previous := map[string]*Range{
		"LastWeek":  LastWeek(time.UTC),
		"LastMonth": LastMonth(time.UTC),
		"LastYear":  LastYear(time.UTC),
	}
	for name, r := range previous {
		if r.InRange(now) {
			t.Errorf("%s: wanted %v outside %+v", name, now, r)
		}
		if !r.End.After(r.Begin) {
			t.Errorf("%s: unexpected range %+v", name, r)
		}
	}

	if !LastWeek(time.UTC).End.Equal(ThisWeek(time.UTC).Begin) {
		t.Error("wanted last week to end where this week begins")
	}
	if !LastMonth(time.UTC).End.Equal(ThisMonth(time.UTC).Begin) {
		t.Error("wanted last month to end where this month begins")
	}
	if !LastYear(time.UTC).End.Equal(ThisYear(time.UTC).Begin) {
		t.Error("wanted last year to end where this year begins")
	}
}
