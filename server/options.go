// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"fmt"
	"time"
)

type Options struct {
	// BackendAddress is the base http/https URL of the trading backend. The
	// websocket and trade endpoints are derived from it.
	BackendAddress string

	// NoResume skips resuming saved ACTIVE limit orders on startup.
	NoResume bool

	// ReconnectInterval overrides the fixed delay between reconnect
	// attempts to the backend.
	ReconnectInterval time.Duration

	// OrderTickInterval overrides the limit order monitoring cadence.
	OrderTickInterval time.Duration

	// AlertFreezeDuration holds the minimum gap between repeated operator
	// alerts for the same subject.
	AlertFreezeDuration time.Duration

	// MaxStatusLogs limits the number of recent activity-log entries
	// included in a status response.
	MaxStatusLogs int
}

func (v *Options) setDefaults() {
	if v.AlertFreezeDuration == 0 {
		v.AlertFreezeDuration = time.Hour
	}
	if v.MaxStatusLogs == 0 {
		v.MaxStatusLogs = 20
	}
}

func (v *Options) Check() error {
	if len(v.BackendAddress) == 0 {
		return fmt.Errorf("backend address cannot be empty")
	}
	return nil
}
