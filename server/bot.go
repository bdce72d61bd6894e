// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"context"
	"fmt"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/session"
	"github.com/bvk/tradedash/timerange"
)

// Bot run-state is updated optimistically: the backend sends no
// acknowledgment for session commands, so acceptance for transmission is the
// best signal available.

func (s *Server) doBotStart(ctx context.Context, req *api.BotStartRequest) (*api.BotStartResponse, error) {
	if err := s.backend.StartBot(); err != nil {
		return nil, err
	}
	s.state.SetRunState("RUNNING")
	return &api.BotStartResponse{RunState: s.state.RunState()}, nil
}

func (s *Server) doBotStop(ctx context.Context, req *api.BotStopRequest) (*api.BotStopResponse, error) {
	if err := s.backend.StopBot(); err != nil {
		return nil, err
	}
	s.state.SetRunState("STOPPED")
	return &api.BotStopResponse{RunState: s.state.RunState()}, nil
}

func (s *Server) doBotPause(ctx context.Context, req *api.BotPauseRequest) (*api.BotPauseResponse, error) {
	if err := s.backend.PauseBot(); err != nil {
		return nil, err
	}
	s.state.SetRunState("PAUSED")
	return &api.BotPauseResponse{RunState: s.state.RunState()}, nil
}

func (s *Server) doPairAdd(ctx context.Context, req *api.PairAddRequest) (*api.PairAddResponse, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("invalid pair add request: %w", err)
	}
	if err := s.backend.AddPair(req.Address); err != nil {
		return nil, err
	}
	return &api.PairAddResponse{}, nil
}

func (s *Server) doPairRemove(ctx context.Context, req *api.PairRemoveRequest) (*api.PairRemoveResponse, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("invalid pair remove request: %w", err)
	}
	if err := s.backend.RemovePair(req.Address); err != nil {
		return nil, err
	}
	return &api.PairRemoveResponse{}, nil
}

func (s *Server) doTrade(ctx context.Context, req *api.TradeRequest) (*api.TradeResponse, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("invalid trade request: %w", err)
	}
	if err := s.backend.Trade(req.Address); err != nil {
		return nil, err
	}
	return &api.TradeResponse{}, nil
}

func (s *Server) doSettingsGet(ctx context.Context, req *api.SettingsGetRequest) (*api.SettingsGetResponse, error) {
	if req.Refresh {
		if err := s.backend.GetSettings(); err != nil {
			return nil, err
		}
	}
	settings, err := s.state.Settings()
	if err != nil {
		return nil, fmt.Errorf("could not read stored settings: %w", err)
	}
	return &api.SettingsGetResponse{Settings: settings}, nil
}

// doSettingsUpdate sends the new settings to the backend first and stores
// them locally only after the message is accepted for transmission, so the
// stored copy never gets ahead of a definitely-unsent one.
func (s *Server) doSettingsUpdate(ctx context.Context, req *api.SettingsUpdateRequest) (*api.SettingsUpdateResponse, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("invalid settings update request: %w", err)
	}
	if err := s.backend.UpdateSettings(req.Settings); err != nil {
		return nil, err
	}
	if err := s.state.ApplySettings(ctx, req.Settings); err != nil {
		return nil, fmt.Errorf("could not store updated settings: %w", err)
	}
	return &api.SettingsUpdateResponse{}, nil
}

func (s *Server) doTransactionList(ctx context.Context, req *api.TransactionListRequest) (*api.TransactionListResponse, error) {
	period := &timerange.Range{
		Begin: req.Begin,
		End:   req.End,
	}

	var records []*session.TransactionRecord
	for _, rec := range s.state.Transactions() {
		if period.InRange(rec.ReceivedAt) {
			records = append(records, rec)
		}
	}
	return &api.TransactionListResponse{Transactions: records}, nil
}
