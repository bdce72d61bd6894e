// Copyright (c) 2025 BVK Chaitanya

package orderbook

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/shopspring/decimal"
)

// monitor runs the fixed-cadence tick loop for one order. Each order has
// exactly one monitor; it terminates when the order leaves ACTIVE or the
// book is closed. A tick runs to completion, including any execution call,
// before the next one is scheduled, so ticks of one order never overlap.
func (b *Book) monitor(ctx context.Context, id int64) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("CAUGHT PANIC", "panic", r)
			slog.Error(string(debug.Stack()))
			panic(r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-time.After(b.opts.TickInterval):
			if done := b.tick(ctx, id); done {
				return
			}
		}
	}
}

// tick runs one monitoring pass and reports whether monitoring must stop.
//
// The trigger is evaluated before expiry, so an order whose trigger fires on
// the tick at its deadline is executed, not expired; expiry applies only when
// the order is still active after the trigger step, a failed execution
// attempt included. An unknown price skips the tick entirely, expiry
// included.
func (b *Book) tick(ctx context.Context, id int64) bool {
	b.mu.Lock()
	v, ok := b.orderMap[id]
	if !ok || v.state.Status != "ACTIVE" {
		b.mu.Unlock()
		return true
	}

	price, ok := b.prices.Lookup(v.state.Asset)
	if !ok {
		b.mu.Unlock()
		return false
	}

	var execErr error
	if triggered(v.state.Side, v.state.Price, price) {
		clientOrderID := v.idgen.NextID()
		side, asset, size := v.state.Side, v.state.Asset, v.state.Size
		b.mu.Unlock()

		err := b.exec.Execute(ctx, clientOrderID.String(), side, asset, size)

		b.mu.Lock()
		if v.state.Status != "ACTIVE" {
			// Canceled while the execution call was in flight. The
			// cancellation wins; the outcome is only logged.
			status := v.state.Status
			b.mu.Unlock()
			slog.Info("order reached a terminal status during execution", "id", id, "status", status, "execErr", err)
			return true
		}
		if err == nil {
			v.state.Status = "FILLED"
			v.state.FilledAt = time.Now()
			v.state.FilledPrice = price
			saveErr := b.saveLocked(ctx, v)
			state := v.state
			b.mu.Unlock()

			if saveErr != nil {
				slog.Error("could not save filled order", "id", id, "err", saveErr)
			}
			slog.Info("order is filled", "id", id, "side", state.Side, "asset", state.Asset, "price", state.FilledPrice)
			b.eventsTopic.Send(&Event{Order: &state})
			return true
		}

		// Take back the client order id so the retry on the next tick
		// repeats it and the backend can deduplicate.
		v.idgen.RevertID()
		execErr = err
	}

	if !v.state.Deadline.IsZero() && !time.Now().Before(v.state.Deadline) {
		v.state.Status = "EXPIRED"
		saveErr := b.saveLocked(ctx, v)
		state := v.state
		b.mu.Unlock()

		if saveErr != nil {
			slog.Error("could not save expired order", "id", id, "err", saveErr)
		}
		if execErr != nil {
			slog.Warn("order execution failed at its deadline", "id", id, "err", execErr)
		}
		slog.Info("order is expired", "id", id)
		b.eventsTopic.Send(&Event{Order: &state})
		return true
	}

	state := v.state
	b.mu.Unlock()

	if execErr != nil {
		slog.Warn("order execution failed (will retry)", "id", id, "err", execErr)
		b.eventsTopic.Send(&Event{Order: &state, Err: execErr})
	}
	return false
}

// triggered reports whether an execution attempt is due at the current
// price. Boundaries are inclusive; the zero limit price stands for "at
// market" and triggers on any known price.
func triggered(side string, limit, current decimal.Decimal) bool {
	if limit.IsZero() {
		return true
	}
	if side == "BUY" {
		return current.LessThanOrEqual(limit)
	}
	return current.GreaterThanOrEqual(limit)
}
