// Copyright (c) 2025 BVK Chaitanya

package orderbook

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/bvk/tradedash/gobs"
	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
)

const testTickInterval = 5 * time.Millisecond

type fakePrices struct {
	mu sync.Mutex

	priceMap map[string]decimal.Decimal
}

func newFakePrices() *fakePrices {
	return &fakePrices{priceMap: make(map[string]decimal.Decimal)}
}

func (f *fakePrices) set(asset string, price decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.priceMap[asset] = price
}

func (f *fakePrices) Lookup(asset string) (decimal.Decimal, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	price, ok := f.priceMap[asset]
	return price, ok
}

type execCall struct {
	clientOrderID string

	side, asset string

	size decimal.Decimal
}

type fakeExecutor struct {
	mu sync.Mutex

	err error

	callCh chan execCall
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{callCh: make(chan execCall, 1024)}
}

func (f *fakeExecutor) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeExecutor) Execute(ctx context.Context, clientOrderID, side, asset string, size decimal.Decimal) error {
	f.mu.Lock()
	err := f.err
	f.mu.Unlock()
	f.callCh <- execCall{clientOrderID: clientOrderID, side: side, asset: asset, size: size}
	return err
}

func newTestBook(t *testing.T, db kv.Database, prices *fakePrices, exec *fakeExecutor) *Book {
	t.Helper()
	b, err := New(db, prices, exec, &Options{TickInterval: testTickInterval})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func waitStatus(t *testing.T, b *Book, id int64, status string) *gobs.LimitOrderState {
	t.Helper()
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); {
		v, err := b.Get(id)
		if err != nil {
			t.Fatal(err)
		}
		if v.Status == status {
			return v
		}
		time.Sleep(testTickInterval)
	}
	t.Fatalf("order %d did not reach status %q", id, status)
	return nil
}

func waitCall(t *testing.T, exec *fakeExecutor) execCall {
	t.Helper()
	select {
	case call := <-exec.callCh:
		return call
	case <-time.After(5 * time.Second):
		t.Fatal("wanted an execution call, got none")
	}
	return execCall{}
}

func checkNoCall(t *testing.T, exec *fakeExecutor, d time.Duration) {
	t.Helper()
	select {
	case call := <-exec.callCh:
		t.Fatalf("wanted no execution call, got %+v", call)
	case <-time.After(d):
	}
}

func TestSubmitChecks(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	one := decimal.NewFromInt(1)
	tests := []*SubmitRequest{
		{Side: "HOLD", Asset: "0xabc", Size: one},
		{Side: "BUY", Asset: "", Size: one},
		{Side: "BUY", Asset: "0xabc"},
		{Side: "SELL", Asset: "0xabc", Size: decimal.NewFromInt(-1)},
		{Side: "SELL", Asset: "0xabc", Size: one, Price: decimal.NewFromInt(-100)},
	}
	for _, req := range tests {
		if _, err := b.Submit(ctx, req); !errors.Is(err, os.ErrInvalid) {
			t.Errorf("Submit(%+v): wanted %v, got %v", req, os.ErrInvalid, err)
		}
	}
	if active, total := b.Counts(); active != 0 || total != 0 {
		t.Fatalf("wanted an empty book, got %d active and %d total", active, total)
	}
}

func TestLimitSellTrigger(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	receiver, err := b.Events()
	if err != nil {
		t.Fatal(err)
	}
	defer receiver.Close()
	eventsCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		t.Fatal(err)
	}

	order, err := b.Submit(ctx, &SubmitRequest{
		Side:     "SELL",
		Asset:    "0xABC",
		Size:     decimal.NewFromInt(1),
		Price:    decimal.NewFromInt(100),
		Deadline: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != "ACTIVE" {
		t.Fatalf("wanted ACTIVE, got %q", order.Status)
	}

	// Prices below the limit must not trigger a sell.
	prices.set("0xabc", decimal.NewFromInt(95))
	checkNoCall(t, exec, 100*time.Millisecond)
	prices.set("0xabc", decimal.NewFromInt(99))
	checkNoCall(t, exec, 100*time.Millisecond)

	prices.set("0xabc", decimal.NewFromInt(101))
	call := waitCall(t, exec)
	if call.side != "SELL" || call.asset != "0xabc" || !call.size.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("unexpected execution call %+v", call)
	}
	if len(call.clientOrderID) == 0 {
		t.Fatal("wanted a non-empty client order id")
	}

	v := waitStatus(t, b, order.ID, "FILLED")
	if !v.FilledPrice.Equal(decimal.NewFromInt(101)) {
		t.Fatalf("wanted filled price 101, got %s", v.FilledPrice)
	}
	if v.FilledAt.IsZero() {
		t.Fatal("wanted a non-zero filled timestamp")
	}

	select {
	case event := <-eventsCh:
		if event.Err != nil || event.Order.Status != "FILLED" {
			t.Fatalf("wanted a FILLED event, got %+v", event)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wanted an order event, got none")
	}
}

func TestBuyTriggerIsInclusive(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	prices.set("0xabc", decimal.RequireFromString("100.01"))
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:  "BUY",
		Asset: "0xabc",
		Size:  decimal.NewFromInt(2),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatal(err)
	}
	checkNoCall(t, exec, 100*time.Millisecond)

	// A buy triggers at or below the limit price.
	prices.set("0xabc", decimal.NewFromInt(100))
	if call := waitCall(t, exec); call.side != "BUY" {
		t.Fatalf("wanted a BUY call, got %+v", call)
	}
	v := waitStatus(t, b, order.ID, "FILLED")
	if !v.FilledPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("wanted filled price 100, got %s", v.FilledPrice)
	}
}

func TestSellTriggerIsInclusive(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	prices.set("0xabc", decimal.RequireFromString("99.99"))
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:  "SELL",
		Asset: "0xabc",
		Size:  decimal.NewFromInt(1),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatal(err)
	}
	checkNoCall(t, exec, 100*time.Millisecond)

	// A sell triggers at or above the limit price.
	prices.set("0xabc", decimal.NewFromInt(100))
	waitCall(t, exec)
	waitStatus(t, b, order.ID, "FILLED")
}

func TestMarketSellWaitsForPrice(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	// A sell at price zero is not executed immediately; it is registered
	// and triggers on the first known price.
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:  "SELL",
		Asset: "0xabc",
		Size:  decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != "ACTIVE" || order.ID == 0 {
		t.Fatalf("wanted a registered active order, got %+v", order)
	}
	checkNoCall(t, exec, 100*time.Millisecond)

	prices.set("0xabc", decimal.NewFromInt(42))
	waitCall(t, exec)
	v := waitStatus(t, b, order.ID, "FILLED")
	if !v.FilledPrice.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("wanted filled price 42, got %s", v.FilledPrice)
	}
}

func TestMarketBuyImmediate(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	prices.set("0xabc", decimal.NewFromInt(42))
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:  "BUY",
		Asset: "0xabc",
		Size:  decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatal(err)
	}
	call := waitCall(t, exec)
	if call.side != "BUY" || call.asset != "0xabc" || !call.size.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("unexpected execution call %+v", call)
	}

	// A successful market buy never enters the book.
	if order.Status != "FILLED" || order.ID != 0 {
		t.Fatalf("wanted an unregistered FILLED order, got %+v", order)
	}
	if !order.FilledPrice.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("wanted filled price 42, got %s", order.FilledPrice)
	}
	if active, total := b.Counts(); active != 0 || total != 0 {
		t.Fatalf("wanted an empty book, got %d active and %d total", active, total)
	}
	if _, err := b.Get(0); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted %v, got %v", os.ErrNotExist, err)
	}
}

func TestMarketBuyFallback(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	prices.set("0xabc", decimal.NewFromInt(42))
	exec.fail(errors.New("insufficient balance"))

	// A failed market buy is registered at the current market price and
	// retried by its monitor.
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:  "BUY",
		Asset: "0xabc",
		Size:  decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatal(err)
	}
	if order.Status != "ACTIVE" || order.ID == 0 {
		t.Fatalf("wanted a registered active order, got %+v", order)
	}
	if !order.Price.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("wanted order price 42, got %s", order.Price)
	}

	first := waitCall(t, exec)
	retry := waitCall(t, exec)
	if retry.clientOrderID != first.clientOrderID {
		t.Fatalf("wanted the retry to repeat client order id %q, got %q", first.clientOrderID, retry.clientOrderID)
	}

	exec.fail(nil)
	waitStatus(t, b, order.ID, "FILLED")
	if active, total := b.Counts(); active != 0 || total != 1 {
		t.Fatalf("wanted 0 active and 1 total, got %d and %d", active, total)
	}
	for len(exec.callCh) > 0 {
		if call := <-exec.callCh; call.clientOrderID != first.clientOrderID {
			t.Fatalf("wanted client order id %q on every attempt, got %q", first.clientOrderID, call.clientOrderID)
		}
	}
}

func TestExecutionFailureRetries(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	receiver, err := b.Events()
	if err != nil {
		t.Fatal(err)
	}
	defer receiver.Close()
	eventsCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		t.Fatal(err)
	}

	prices.set("0xabc", decimal.NewFromInt(101))
	exec.fail(errors.New("backend is busy"))

	order, err := b.Submit(ctx, &SubmitRequest{
		Side:  "SELL",
		Asset: "0xabc",
		Size:  decimal.NewFromInt(1),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatal(err)
	}

	first := waitCall(t, exec)
	second := waitCall(t, exec)
	if second.clientOrderID != first.clientOrderID {
		t.Fatalf("wanted the retry to repeat client order id %q, got %q", first.clientOrderID, second.clientOrderID)
	}
	select {
	case event := <-eventsCh:
		if event.Err == nil || event.Order.ID != order.ID {
			t.Fatalf("wanted an execution failure event, got %+v", event)
		}
		if event.Order.Status != "ACTIVE" {
			t.Fatalf("wanted the failed order to stay ACTIVE, got %q", event.Order.Status)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wanted an execution failure event, got none")
	}

	exec.fail(nil)
	waitStatus(t, b, order.ID, "FILLED")
}

func TestExpiry(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	prices.set("0xabc", decimal.NewFromInt(95))
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:     "SELL",
		Asset:    "0xabc",
		Size:     decimal.NewFromInt(1),
		Price:    decimal.NewFromInt(100),
		Deadline: time.Now().Add(100 * time.Millisecond),
	})
	if err != nil {
		t.Fatal(err)
	}

	waitStatus(t, b, order.ID, "EXPIRED")
	select {
	case call := <-exec.callCh:
		t.Fatalf("wanted no execution call, got %+v", call)
	default:
	}
	if active, total := b.Counts(); active != 0 || total != 1 {
		t.Fatalf("wanted 0 active and 1 total, got %d and %d", active, total)
	}
}

func TestUnknownPriceSkipsExpiry(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	order, err := b.Submit(ctx, &SubmitRequest{
		Side:     "SELL",
		Asset:    "0xabc",
		Size:     decimal.NewFromInt(1),
		Price:    decimal.NewFromInt(100),
		Deadline: time.Now().Add(50 * time.Millisecond),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Ticks decide nothing while the price is unknown, so the deadline
	// alone must not expire the order.
	time.Sleep(200 * time.Millisecond)
	v, err := b.Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != "ACTIVE" {
		t.Fatalf("wanted ACTIVE, got %q", v.Status)
	}

	// The first known price drives the pending expiry.
	prices.set("0xabc", decimal.NewFromInt(95))
	waitStatus(t, b, order.ID, "EXPIRED")
	select {
	case call := <-exec.callCh:
		t.Fatalf("wanted no execution call, got %+v", call)
	default:
	}
}

func TestTriggerWinsOverExpiry(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	// When the trigger fires on a tick past the deadline, the order is
	// executed, not expired.
	prices.set("0xabc", decimal.NewFromInt(101))
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:     "SELL",
		Asset:    "0xabc",
		Size:     decimal.NewFromInt(1),
		Price:    decimal.NewFromInt(100),
		Deadline: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	waitCall(t, exec)
	waitStatus(t, b, order.ID, "FILLED")
}

func TestExpiryAfterFailedExecution(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	// A failing trigger does not hold an order past its deadline.
	prices.set("0xabc", decimal.NewFromInt(101))
	exec.fail(errors.New("backend is busy"))
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:     "SELL",
		Asset:    "0xabc",
		Size:     decimal.NewFromInt(1),
		Price:    decimal.NewFromInt(100),
		Deadline: time.Now().Add(50 * time.Millisecond),
	})
	if err != nil {
		t.Fatal(err)
	}
	waitCall(t, exec)
	waitStatus(t, b, order.ID, "EXPIRED")
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	order, err := b.Submit(ctx, &SubmitRequest{
		Side:  "SELL",
		Asset: "0xabc",
		Size:  decimal.NewFromInt(1),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatal(err)
	}

	status, err := b.Cancel(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status != "CANCELED" {
		t.Fatalf("wanted CANCELED, got %q", status)
	}

	// Canceling again returns the terminal status unchanged.
	status, err = b.Cancel(ctx, order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status != "CANCELED" {
		t.Fatalf("wanted CANCELED, got %q", status)
	}

	// Canceling an unknown id is not an error.
	status, err = b.Cancel(ctx, order.ID+12345)
	if err != nil {
		t.Fatal(err)
	}
	if len(status) != 0 {
		t.Fatalf("wanted an empty status, got %q", status)
	}

	// A triggering price after cancellation must not execute.
	prices.set("0xabc", decimal.NewFromInt(101))
	checkNoCall(t, exec, 100*time.Millisecond)
	if active, total := b.Counts(); active != 0 || total != 1 {
		t.Fatalf("wanted 0 active and 1 total, got %d and %d", active, total)
	}
}

func TestTerminalStatusIsFinal(t *testing.T) {
	ctx := context.Background()
	prices, exec := newFakePrices(), newFakeExecutor()
	b := newTestBook(t, kvmemdb.New(), prices, exec)
	defer b.Close()

	prices.set("0xabc", decimal.NewFromInt(101))
	order, err := b.Submit(ctx, &SubmitRequest{
		Side:  "SELL",
		Asset: "0xabc",
		Size:  decimal.NewFromInt(1),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatal(err)
	}
	waitCall(t, exec)
	v := waitStatus(t, b, order.ID, "FILLED")

	prices.set("0xabc", decimal.NewFromInt(500))
	checkNoCall(t, exec, 100*time.Millisecond)
	w, err := b.Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if w.Status != "FILLED" || !w.FilledPrice.Equal(v.FilledPrice) {
		t.Fatalf("wanted the filled order unchanged, got %+v", w)
	}
}

func TestLoadRestoresOrders(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()
	prices := newFakePrices()

	exec1 := newFakeExecutor()
	b1 := newTestBook(t, db, prices, exec1)

	prices.set("0xfff", decimal.NewFromInt(101))
	filled, err := b1.Submit(ctx, &SubmitRequest{
		Side:  "SELL",
		Asset: "0xfff",
		Size:  decimal.NewFromInt(1),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatal(err)
	}
	waitCall(t, exec1)
	waitStatus(t, b1, filled.ID, "FILLED")

	active, err := b1.Submit(ctx, &SubmitRequest{
		Side:  "SELL",
		Asset: "0xaaa",
		Size:  decimal.NewFromInt(2),
		Price: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatal(err)
	}
	b1.Close()

	// A new book on the same database restores both records, but resumes
	// monitoring for the active one only.
	exec2 := newFakeExecutor()
	b2 := newTestBook(t, db, prices, exec2)
	defer b2.Close()
	if err := b2.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if nactive, ntotal := b2.Counts(); nactive != 1 || ntotal != 2 {
		t.Fatalf("wanted 1 active and 2 total, got %d and %d", nactive, ntotal)
	}

	v, err := b2.Get(filled.ID)
	if err != nil {
		t.Fatal(err)
	}
	if v.Status != "FILLED" || !v.FilledPrice.Equal(decimal.NewFromInt(101)) {
		t.Fatalf("wanted the filled record restored unchanged, got %+v", v)
	}
	checkNoCall(t, exec2, 100*time.Millisecond)

	orders := b2.List(false)
	if len(orders) != 2 || orders[0].ID != filled.ID || orders[1].ID != active.ID {
		t.Fatalf("wanted both records in creation order, got %+v", orders)
	}
	if actives := b2.List(true); len(actives) != 1 || actives[0].ID != active.ID {
		t.Fatalf("wanted the active record only, got %+v", actives)
	}

	// The restored monitor picks up where it left off.
	prices.set("0xaaa", decimal.NewFromInt(101))
	call := waitCall(t, exec2)
	if call.asset != "0xaaa" || !call.size.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("unexpected execution call %+v", call)
	}
	waitStatus(t, b2, active.ID, "FILLED")
}
