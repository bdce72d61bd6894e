// Copyright (c) 2025 BVK Chaitanya

// Package orderbook implements the client-resident limit-order engine. The
// operator registers limit orders with the daemon; one monitoring task per
// active order polls the latest cached price on a fixed tick and submits a
// trade request when the trigger condition is met. Orders are persisted on
// every mutation and survive daemon restarts.
package orderbook

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bvk/tradedash/ctxutil"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/idgen"
	"github.com/bvk/tradedash/kvutil"
	"github.com/bvkgo/kv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
)

// DefaultKeyspace is the database prefix for order records. Keys are the
// zero-padded order ids, so ascending key order is creation order.
const DefaultKeyspace = "/orders"

// PriceSource supplies the latest known price for an asset. A false return
// means the price is unknown and the caller must not act on it.
type PriceSource interface {
	Lookup(asset string) (decimal.Decimal, bool)
}

// Executor submits one trade to the backend. The client order id is
// deterministic per order, so the backend can deduplicate a repeated attempt
// after a crash.
type Executor interface {
	Execute(ctx context.Context, clientOrderID, side, asset string, size decimal.Decimal) error
}

// Event describes one order state change. Err is non-nil for an execution
// failure, in which case the order is still active and will be retried.
type Event struct {
	Order *gobs.LimitOrderState

	Err error
}

// SubmitRequest carries the parameters for one new limit order.
type SubmitRequest struct {
	// Side must be BUY or SELL.
	Side string

	Asset string

	Size decimal.Decimal

	// Price zero stands for "at the current market price".
	Price decimal.Decimal

	// Deadline zero means the order never expires.
	Deadline time.Time
}

type limitOrder struct {
	state gobs.LimitOrderState

	idgen *idgen.Generator
}

// Book owns the limit-order collection. All order state is guarded by one
// mutex; execution calls run outside it and their outcome is applied only if
// the order is still active afterwards.
type Book struct {
	opts Options

	db kv.Database

	prices PriceSource

	exec Executor

	eventsTopic *topic.Topic[*Event]

	cg ctxutil.CloseGroup

	mu sync.Mutex

	orderMap map[int64]*limitOrder
}

// New creates an empty order book. Use Load to restore orders persisted by
// an earlier run.
func New(db kv.Database, prices PriceSource, exec Executor, opts *Options) (*Book, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if db == nil || prices == nil || exec == nil {
		return nil, os.ErrInvalid
	}
	b := &Book{
		opts:        *opts,
		db:          db,
		prices:      prices,
		exec:        exec,
		eventsTopic: topic.New[*Event](),
		orderMap:    make(map[int64]*limitOrder),
	}
	return b, nil
}

// Close stops all monitoring tasks and waits for them.
func (b *Book) Close() {
	b.cg.Close()
	b.eventsTopic.Close()
}

// Events returns a receiver for order state-change events.
func (b *Book) Events() (*topic.Receiver[*Event], error) {
	return topic.Subscribe(b.eventsTopic, 0, false)
}

// Load restores persisted order records and resumes a fresh monitoring task
// for exactly the active ones. Terminal records are kept for Get and List
// but stay unmonitored and unchanged. Load must be called once, before the
// book starts taking requests.
func (b *Book) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var actives []int64
	begin, end := kvutil.PathRange(b.opts.Keyspace)
	err := kvutil.AscendDB(ctx, b.db, begin, end, func(ctx context.Context, r kv.Reader, key string, state *gobs.LimitOrderState) error {
		b.orderMap[state.ID] = &limitOrder{
			state: *state,
			idgen: idgen.New(state.IDSeed, state.IDOffset),
		}
		if state.Status == "ACTIVE" {
			actives = append(actives, state.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not load saved orders: %w", err)
	}

	for _, id := range actives {
		b.cg.Go(func(ctx context.Context) {
			b.monitor(ctx, id)
		})
	}
	slog.Info("loaded saved orders", "total", len(b.orderMap), "active", len(actives))
	return nil
}

// Submit validates and registers a new order. A BUY at price zero is
// executed immediately as a market order instead: on success the order never
// enters the book and the returned record has a zero id; on failure it is
// registered active at the current market price (or the zero sentinel when
// no price is known) so the monitor retries it.
func (b *Book) Submit(ctx context.Context, req *SubmitRequest) (*gobs.LimitOrderState, error) {
	side := strings.ToUpper(req.Side)
	if side != "BUY" && side != "SELL" {
		return nil, fmt.Errorf("order side %q is invalid: %w", req.Side, os.ErrInvalid)
	}
	if len(req.Asset) == 0 {
		return nil, fmt.Errorf("order asset cannot be empty: %w", os.ErrInvalid)
	}
	if !req.Size.IsPositive() {
		return nil, fmt.Errorf("order size must be positive: %w", os.ErrInvalid)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("order price cannot be negative: %w", os.ErrInvalid)
	}
	asset := strings.ToLower(req.Asset)

	if side == "BUY" && req.Price.IsZero() {
		return b.submitMarketBuy(ctx, asset, req.Size, req.Deadline)
	}
	return b.register(ctx, side, asset, req.Size, req.Price, req.Deadline, uuid.NewString(), 0)
}

func (b *Book) submitMarketBuy(ctx context.Context, asset string, size decimal.Decimal, deadline time.Time) (*gobs.LimitOrderState, error) {
	seed := uuid.NewString()
	clientOrderID := idgen.New(seed, 0).NextID()

	if err := b.exec.Execute(ctx, clientOrderID.String(), "BUY", asset, size); err != nil {
		slog.Warn("immediate market buy failed; registering order for retry", "asset", asset, "size", size, "err", err)

		price := decimal.Zero
		if p, ok := b.prices.Lookup(asset); ok {
			price = p
		}
		// The registered order keeps the same id seed at offset zero, so
		// retries repeat the client order id of the failed attempt.
		state, rerr := b.register(ctx, "BUY", asset, size, price, deadline, seed, 0)
		if rerr != nil {
			return nil, rerr
		}
		b.eventsTopic.Send(&Event{Order: state, Err: err})
		return state, nil
	}

	now := time.Now()
	state := &gobs.LimitOrderState{
		Side:      "BUY",
		Asset:     asset,
		Size:      size,
		Status:    "FILLED",
		Deadline:  deadline,
		CreatedAt: now,
		FilledAt:  now,
		IDSeed:    seed,
		IDOffset:  1,
	}
	if p, ok := b.prices.Lookup(asset); ok {
		state.FilledPrice = p
	}
	b.eventsTopic.Send(&Event{Order: state})
	return state, nil
}

func (b *Book) register(ctx context.Context, side, asset string, size, price decimal.Decimal, deadline time.Time, seed string, offset uint64) (*gobs.LimitOrderState, error) {
	b.mu.Lock()

	// Order ids are creation unix-millis, bumped past collisions.
	id := time.Now().UnixMilli()
	for _, ok := b.orderMap[id]; ok; _, ok = b.orderMap[id] {
		id++
	}

	v := &limitOrder{
		state: gobs.LimitOrderState{
			ID:        id,
			Side:      side,
			Asset:     asset,
			Size:      size,
			Price:     price,
			Deadline:  deadline,
			Status:    "ACTIVE",
			CreatedAt: time.Now(),
			IDSeed:    seed,
		},
		idgen: idgen.New(seed, offset),
	}
	if err := b.saveLocked(ctx, v); err != nil {
		b.mu.Unlock()
		return nil, fmt.Errorf("could not save new order: %w", err)
	}
	b.orderMap[id] = v
	state := v.state
	b.mu.Unlock()

	b.cg.Go(func(ctx context.Context) {
		b.monitor(ctx, id)
	})
	slog.Info("registered new order", "id", id, "side", side, "asset", asset, "size", size, "price", price)
	return &state, nil
}

// Cancel marks an order canceled and returns its final status. Canceling an
// order that is already terminal returns the terminal status; canceling an
// unknown id returns an empty status. Neither is an error. The order's
// monitoring task stops on its next tick; an in-flight execution call is not
// preempted, but its outcome is discarded.
func (b *Book) Cancel(ctx context.Context, id int64) (string, error) {
	b.mu.Lock()
	v, ok := b.orderMap[id]
	if !ok {
		b.mu.Unlock()
		return "", nil
	}
	if v.state.Status != "ACTIVE" {
		status := v.state.Status
		b.mu.Unlock()
		return status, nil
	}
	v.state.Status = "CANCELED"
	err := b.saveLocked(ctx, v)
	state := v.state
	b.mu.Unlock()

	if err != nil {
		return "", fmt.Errorf("could not save canceled order: %w", err)
	}
	b.eventsTopic.Send(&Event{Order: &state})
	slog.Info("order is canceled", "id", id)
	return state.Status, nil
}

// Get returns a point-in-time copy of an order record.
func (b *Book) Get(id int64) (*gobs.LimitOrderState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.orderMap[id]
	if !ok {
		return nil, os.ErrNotExist
	}
	state := v.state
	return &state, nil
}

// List returns point-in-time copies of order records in creation order.
func (b *Book) List(activeOnly bool) []*gobs.LimitOrderState {
	b.mu.Lock()
	defer b.mu.Unlock()

	var states []*gobs.LimitOrderState
	for _, v := range b.orderMap {
		if activeOnly && v.state.Status != "ACTIVE" {
			continue
		}
		state := v.state
		states = append(states, &state)
	}
	slices.SortFunc(states, func(a, b *gobs.LimitOrderState) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return states
}

// Counts returns the number of active and total order records.
func (b *Book) Counts() (active, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, v := range b.orderMap {
		if v.state.Status == "ACTIVE" {
			active++
		}
	}
	return active, len(b.orderMap)
}

func (b *Book) orderKey(id int64) string {
	return path.Join(b.opts.Keyspace, fmt.Sprintf("%016d", id))
}

// saveLocked writes the order record through to the database. Callers must
// hold the book mutex.
func (b *Book) saveLocked(ctx context.Context, v *limitOrder) error {
	v.state.IDOffset = v.idgen.Offset()
	state := v.state
	return kvutil.SetDB(ctx, b.db, b.orderKey(state.ID), &state)
}
