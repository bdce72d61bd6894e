// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bvk/tradedash/orderbook"
	"github.com/bvk/tradedash/session"
	"github.com/visvasity/topic"
)

// alertAllowed reports whether an alert with the given subject key may fire
// at now, and reserves the freeze window when it may. A persistent condition
// alerts once per freeze window instead of on every evaluation.
func (s *Server) alertAllowed(key string, now time.Time) bool {
	s.alertMu.Lock()
	defer s.alertMu.Unlock()

	if deadline, ok := s.alertFreezeDeadlineMap[key]; ok {
		if now.Before(deadline) {
			return false
		}
	}
	s.alertFreezeDeadlineMap[key] = now.Add(s.opts.AlertFreezeDuration)
	return true
}

func (s *Server) watchSessionState(ctx context.Context) error {
	receiver, err := s.state.Subscribe(1, true /* recent */)
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
			if err := s.alertOnHighGasPrice(ctx, state); err != nil {
				slog.WarnContext(ctx, "could not check for gas price alert (ignored)", "err", err)
			}
		}
	}
}

func (s *Server) alertOnHighGasPrice(ctx context.Context, state *session.State) error {
	settings, err := s.state.Settings()
	if err != nil {
		return err
	}
	// No settings snapshot yet is not an error.
	if settings == nil || !settings.Alerts.EnableGasAlerts {
		return nil
	}
	max := settings.Trading.MaxGasPrice
	if !max.IsPositive() {
		return nil
	}
	if state.Gas.Current.LessThanOrEqual(max) {
		return nil
	}

	now := time.Now()
	if !s.alertAllowed("alerts/high-gas-price", now) {
		return nil
	}
	s.SendMessage(ctx, now,
		"Gas price %s gwei is above the configured maximum %s gwei.",
		state.Gas.Current.StringFixed(2), max.StringFixed(2))
	return nil
}

func (s *Server) watchOrderEvents(ctx context.Context) error {
	receiver, err := s.book.Events()
	if err != nil {
		return err
	}
	defer receiver.Close()

	eventsCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)

		case event := <-eventsCh:
			s.notifyOrderEvent(ctx, event)
		}
	}
}

func (s *Server) notifyOrderEvent(ctx context.Context, event *orderbook.Event) {
	now := time.Now()
	order := event.Order

	if event.Err != nil {
		// Execution is retried every tick, so failures for the same
		// order are frozen after the first alert.
		key := fmt.Sprintf("alerts/order-execution-failure/%d", order.ID)
		if !s.alertAllowed(key, now) {
			return
		}
		s.SendMessage(ctx, now,
			"Limit %s order %d for %s %s could not be executed: %v.",
			order.Side, order.ID, order.Size, order.Asset, event.Err)
		return
	}

	switch order.Status {
	case "FILLED":
		if order.ID == 0 {
			s.SendMessage(ctx, now,
				"Market buy for %s %s is executed at price %s.",
				order.Size, order.Asset, order.FilledPrice)
			return
		}
		s.SendMessage(ctx, now,
			"Limit %s order %d for %s %s is filled at price %s.",
			order.Side, order.ID, order.Size, order.Asset, order.FilledPrice)

	case "EXPIRED":
		s.SendMessage(ctx, now,
			"Limit %s order %d for %s %s expired at its deadline without execution.",
			order.Side, order.ID, order.Size, order.Asset)

	case "CANCELED":
		s.SendMessage(ctx, now,
			"Limit %s order %d for %s %s is canceled.",
			order.Side, order.ID, order.Size, order.Asset)
	}
}
