// Copyright (c) 2025 BVK Chaitanya

package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bvk/tradedash/gobs"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
)

func TestApplyUpdate(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if v := s.State(); v != nil {
		t.Fatalf("wanted no snapshot before the first update, got %+v", v)
	}

	receiver, err := s.Subscribe(1, false)
	if err != nil {
		t.Fatal(err)
	}
	defer receiver.Close()
	statesCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		t.Fatal(err)
	}

	s.ApplyUpdate(&Update{
		Wallet: &WalletInfo{Address: "0xabc", Balance: decimal.NewFromInt(5), Network: "testnet"},
		Pairs:  []PairInfo{{Name: "AAA/BBB", Address: "0xp1"}},
	})
	select {
	case v := <-statesCh:
		if v.Wallet.Address != "0xabc" || len(v.Pairs) != 1 {
			t.Fatalf("unexpected snapshot %+v", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wanted a snapshot update, got none")
	}

	// Sub-objects absent from an update keep their stored values.
	s.ApplyUpdate(&Update{
		Gas: &GasInfo{Current: decimal.NewFromInt(30), Limit: 500000},
	})
	v := s.State()
	if v.Wallet.Address != "0xabc" || v.Wallet.Network != "testnet" {
		t.Fatalf("wanted the wallet preserved, got %+v", v.Wallet)
	}
	if !v.Gas.Current.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("wanted gas 30, got %s", v.Gas.Current)
	}
	if len(v.Pairs) != 1 {
		t.Fatalf("wanted the pair list preserved, got %+v", v.Pairs)
	}

	// Present sub-objects are replaced wholesale, not merged.
	s.ApplyUpdate(&Update{
		Wallet: &WalletInfo{Balance: decimal.NewFromInt(7)},
	})
	v = s.State()
	if len(v.Wallet.Address) != 0 || !v.Wallet.Balance.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("wanted the wallet replaced wholesale, got %+v", v.Wallet)
	}

	// An explicit empty pair list clears the stored one; a nil list leaves
	// it alone.
	s.ApplyUpdate(&Update{Pairs: []PairInfo{}})
	if v := s.State(); len(v.Pairs) != 0 {
		t.Fatalf("wanted an empty pair list, got %+v", v.Pairs)
	}

	// Returned snapshots are copies; mutating one must not touch the store.
	v = s.State()
	v.Wallet.Address = "scribbled"
	if w := s.State(); w.Wallet.Address == "scribbled" {
		t.Fatal("wanted the snapshot isolated from the caller")
	}
}

func TestSettingsPersistence(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	s1, err := New(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	defer s1.Close()

	if v, err := s1.Settings(); err != nil || v != nil {
		t.Fatalf("wanted no settings on a fresh store, got %+v (%v)", v, err)
	}

	settings := &gobs.Settings{}
	settings.Trading.GasLimit = 750000
	settings.Trading.MaxSlippage = decimal.RequireFromString("0.5")
	settings.Alerts.EnableGasAlerts = true
	if err := s1.ApplySettings(ctx, settings); err != nil {
		t.Fatal(err)
	}

	v, err := s1.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if v.Trading.GasLimit != 750000 || !v.Alerts.EnableGasAlerts {
		t.Fatalf("unexpected settings %+v", v)
	}

	// Returned settings are copies.
	v.Trading.GasLimit = 1
	if w, _ := s1.Settings(); w.Trading.GasLimit != 750000 {
		t.Fatalf("wanted the stored settings isolated from the caller, got %+v", w)
	}

	// A new store on the same database starts with the saved settings.
	s2, err := New(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	w, err := s2.Settings()
	if err != nil {
		t.Fatal(err)
	}
	if w == nil || w.Trading.GasLimit != 750000 || !w.Trading.MaxSlippage.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("wanted the saved settings reloaded, got %+v", w)
	}
}

func TestRunState(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if v := s.RunState(); v != "STOPPED" {
		t.Fatalf("wanted STOPPED, got %q", v)
	}
	s.SetRunState("RUNNING")
	if v := s.RunState(); v != "RUNNING" {
		t.Fatalf("wanted RUNNING, got %q", v)
	}
	s.SetRunState("PAUSED")
	if v := s.RunState(); v != "PAUSED" {
		t.Fatalf("wanted PAUSED, got %q", v)
	}
}

func TestTransactionsCap(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i := 0; i < maxTransactions+5; i++ {
		s.AddTransaction(&TransactionRecord{
			Type:   "buy",
			TxHash: fmt.Sprintf("0x%04d", i),
		})
	}

	recs := s.Transactions()
	if len(recs) != maxTransactions {
		t.Fatalf("wanted %d records, got %d", maxTransactions, len(recs))
	}
	// Newest first.
	if recs[0].TxHash != fmt.Sprintf("0x%04d", maxTransactions+4) {
		t.Fatalf("wanted the newest record first, got %q", recs[0].TxHash)
	}
	if recs[0].ReceivedAt.IsZero() {
		t.Fatal("wanted a receipt timestamp")
	}
}

func TestRecentLogs(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, kvmemdb.New())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.AddLogEvent(&LogEvent{
			Level:   "info",
			Message: fmt.Sprintf("event %d", i),
		})
	}

	logs := s.RecentLogs(3)
	if len(logs) != 3 {
		t.Fatalf("wanted 3 entries, got %d", len(logs))
	}
	if logs[0].Message != "event 9" || logs[2].Message != "event 7" {
		t.Fatalf("wanted the newest entries first, got %q and %q", logs[0].Message, logs[2].Message)
	}

	if logs := s.RecentLogs(100); len(logs) != 10 {
		t.Fatalf("wanted all 10 entries, got %d", len(logs))
	}
}
