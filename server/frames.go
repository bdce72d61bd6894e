// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/bvk/tradedash/backend"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/session"
	"github.com/visvasity/topic"
)

// handleStateFrame applies "state" and "update" frames. Unrecognized frame
// kinds also land here, decoded for whatever snapshot sub-objects they carry.
func (s *Server) handleStateFrame(ctx context.Context, data json.RawMessage) error {
	u := new(session.Update)
	if err := json.Unmarshal(data, u); err != nil {
		return fmt.Errorf("could not unmarshal state frame: %w", err)
	}
	s.state.ApplyUpdate(u)
	return nil
}

func (s *Server) handleLogFrame(ctx context.Context, data json.RawMessage) error {
	ev := new(session.LogEvent)
	if err := json.Unmarshal(data, ev); err != nil {
		return fmt.Errorf("could not unmarshal log frame: %w", err)
	}
	s.state.AddLogEvent(ev)
	return nil
}

func (s *Server) handleSettingsFrame(ctx context.Context, data json.RawMessage) error {
	v := new(gobs.Settings)
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("could not unmarshal settings frame: %w", err)
	}
	if err := s.state.ApplySettings(ctx, v); err != nil {
		return fmt.Errorf("could not apply settings: %w", err)
	}
	return nil
}

func (s *Server) handlePriceFrame(ctx context.Context, data json.RawMessage) error {
	u := new(backend.PriceUpdate)
	if err := json.Unmarshal(data, u); err != nil {
		return fmt.Errorf("could not unmarshal price_update frame: %w", err)
	}
	if len(u.TokenAddress) == 0 {
		return fmt.Errorf("price_update frame carries no token address")
	}
	s.prices.Set(u.TokenAddress, u.Price)
	return nil
}

func (s *Server) handleTransactionFrame(ctx context.Context, data json.RawMessage) error {
	rec := new(session.TransactionRecord)
	if err := json.Unmarshal(data, rec); err != nil {
		return fmt.Errorf("could not unmarshal transaction frame: %w", err)
	}
	s.state.AddTransaction(rec)
	return nil
}

// watchConnState turns backend connection state changes into activity-log
// entries and refreshes the settings snapshot after every reconnect.
func (s *Server) watchConnState(ctx context.Context) error {
	receiver, err := s.backend.ConnStateUpdates()
	if err != nil {
		return err
	}
	defer receiver.Close()

	statesCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)

		case state := <-statesCh:
			s.state.AddLogEvent(&session.LogEvent{
				Level:      "info",
				Message:    fmt.Sprintf("backend connection is %s", state),
				ReceivedAt: time.Now(),
			})
			if state == "CONNECTED" {
				if err := s.backend.GetSettings(); err != nil {
					slog.WarnContext(ctx, "could not request settings refresh (ignored)", "err", err)
				}
			}
		}
	}
}
