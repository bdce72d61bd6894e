// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bvk/tradedash/api"
)

func (s *Server) doStatus(ctx context.Context, req *api.StatusRequest) (*api.StatusResponse, error) {
	settings, err := s.state.Settings()
	if err != nil {
		return nil, fmt.Errorf("could not read stored settings: %w", err)
	}

	active, total := s.book.Counts()

	resp := &api.StatusResponse{
		ConnectionState: s.backend.ConnState(),
		RunState:        s.state.RunState(),
		State:           s.state.State(),
		Settings:        settings,
		RecentLogs:      s.state.RecentLogs(s.opts.MaxStatusLogs),
		ActiveOrders:    active,
		TotalOrders:     total,
		Pid:             s.proc.Pid,
		Uptime:          time.Since(s.startTime),
	}

	// Process stats are best effort; an unsupported platform metric should
	// not fail the whole status request.
	if v, err := s.proc.CPUPercentWithContext(ctx); err == nil {
		resp.CPUPercent = v
	} else {
		slog.WarnContext(ctx, "could not read cpu percent (ignored)", "err", err)
	}
	if v, err := s.proc.MemoryInfoWithContext(ctx); err == nil {
		resp.MemoryRSS = v.RSS
	} else {
		slog.WarnContext(ctx, "could not read memory info (ignored)", "err", err)
	}
	if v, err := s.proc.NumThreadsWithContext(ctx); err == nil {
		resp.NumThreads = v
	} else {
		slog.WarnContext(ctx, "could not read thread count (ignored)", "err", err)
	}
	return resp, nil
}
