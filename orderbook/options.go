// Copyright (c) 2025 BVK Chaitanya

package orderbook

import (
	"time"
)

type Options struct {
	// TickInterval is the monitoring cadence for every active order.
	TickInterval time.Duration

	// Keyspace is the database prefix for order records.
	Keyspace string
}

func (v *Options) setDefaults() {
	if v.TickInterval == 0 {
		v.TickInterval = time.Second
	}
	if len(v.Keyspace) == 0 {
		v.Keyspace = DefaultKeyspace
	}
}
