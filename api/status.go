// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"time"

	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/session"
)

const StatusPath = "/status"

type StatusRequest struct {
}

type StatusResponse struct {
	// ConnectionState is one of DISCONNECTED, CONNECTING or CONNECTED.
	ConnectionState string

	// RunState is one of STOPPED, RUNNING or PAUSED.
	RunState string

	State *session.State

	Settings *gobs.Settings

	// RecentLogs holds the newest backend activity-log entries.
	RecentLogs []*session.LogEvent

	ActiveOrders int
	TotalOrders  int

	Pid        int32
	Uptime     time.Duration
	CPUPercent float64
	MemoryRSS  uint64
	NumThreads int32
}
