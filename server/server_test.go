// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bvk/tradedash/api"
	"github.com/bvkgo/kv/kvmemdb"
)

func TestServer(t *testing.T) {
	ctx := context.Background()

	db := kvmemdb.New()
	opts := &Options{
		BackendAddress: "http://127.0.0.1:10001",
	}
	s, err := New(ctx, nil /* secrets */, db, opts)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
	}()

	handlerMap := s.HandlerMap()
	paths := []string{
		api.OrderAddPath,
		api.OrderCancelPath,
		api.OrderGetPath,
		api.OrderListPath,
		api.BotStartPath,
		api.BotStopPath,
		api.BotPausePath,
		api.PairAddPath,
		api.PairRemovePath,
		api.SettingsGetPath,
		api.SettingsUpdatePath,
		api.TradePath,
		api.TransactionListPath,
		api.StatusPath,
	}
	for _, p := range paths {
		if _, ok := handlerMap[p]; !ok {
			t.Errorf("handler map has no handler for %q", p)
		}
	}

	mux := http.NewServeMux()
	for k, v := range handlerMap {
		mux.Handle(k, v)
	}
	ts := httptest.NewServer(mux)
	defer ts.Close()

	// Status must work before the backend connection is ever started.
	resp, err := http.Post(ts.URL+api.StatusPath, "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status request failed with http status %d", resp.StatusCode)
	}
	status := new(api.StatusResponse)
	if err := json.NewDecoder(resp.Body).Decode(status); err != nil {
		t.Fatal(err)
	}
	if status.ConnectionState != "DISCONNECTED" {
		t.Errorf("connection state: want DISCONNECTED, got %q", status.ConnectionState)
	}
	if status.RunState != "STOPPED" {
		t.Errorf("run state: want STOPPED, got %q", status.RunState)
	}
	if status.ActiveOrders != 0 || status.TotalOrders != 0 {
		t.Errorf("order counts: want 0/0, got %d/%d", status.ActiveOrders, status.TotalOrders)
	}

	// The POST-JSON convention rejects other methods.
	getResp, err := http.Get(ts.URL + api.StatusPath)
	if err != nil {
		t.Fatal(err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status: want %d, got %d", http.StatusMethodNotAllowed, getResp.StatusCode)
	}

	// Commands toward a disconnected backend report service unavailable.
	startResp, err := http.Post(ts.URL+api.BotStartPath, "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatal(err)
	}
	startResp.Body.Close()
	if startResp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("bot start while disconnected: want %d, got %d", http.StatusServiceUnavailable, startResp.StatusCode)
	}
}
