// Copyright (c) 2025 BVK Chaitanya

// Package timerange selects time periods for transaction history queries.
package timerange

import (
	"math"
	"time"
)

// Range is a half-open time interval [Begin, End). A zero Begin or End leaves
// that side of the interval unbounded.
type Range struct {
	Begin, End time.Time
}

func (r *Range) IsZero() bool {
	return r.Begin.IsZero() && r.End.IsZero()
}

// InRange returns true when the given time falls inside the interval.
func (r *Range) InRange(v time.Time) bool {
	if !r.Begin.IsZero() && v.Before(r.Begin) {
		return false
	}
	if !r.End.IsZero() && !v.Before(r.End) {
		return false
	}
	return true
}

func (r *Range) Duration() time.Duration {
	if r.IsZero() {
		return math.MaxInt64
	}
	if r.End.IsZero() {
		return time.Since(r.Begin)
	}
	return r.End.Sub(r.Begin)
}
