// Copyright (c) 2025 BVK Chaitanya

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/bvk/tradedash/gobs"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
)

// testBackend is an in-process stand-in for the trading backend, with the
// websocket endpoint at /ws and the trade endpoint at /api/trade.
type testBackend struct {
	server *httptest.Server

	upgrader websocket.Upgrader

	connCh chan *websocket.Conn

	recvCh chan []byte

	tradeCh chan *tradeExecRequest

	mu sync.Mutex

	tradeStatus int

	tradeResponse tradeExecResponse
}

func newTestBackend(t *testing.T) *testBackend {
	tb := &testBackend{
		connCh:        make(chan *websocket.Conn, 16),
		recvCh:        make(chan []byte, 16),
		tradeCh:       make(chan *tradeExecRequest, 16),
		tradeStatus:   http.StatusOK,
		tradeResponse: tradeExecResponse{Success: true},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", tb.handleWebsocket)
	mux.HandleFunc("/api/trade", tb.handleTrade)
	tb.server = httptest.NewServer(mux)
	t.Cleanup(tb.server.Close)
	return tb
}

func (tb *testBackend) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := tb.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			tb.recvCh <- msg
		}
	}()
	tb.connCh <- conn
}

func (tb *testBackend) handleTrade(w http.ResponseWriter, r *http.Request) {
	req := new(tradeExecRequest)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	tb.tradeCh <- req

	tb.mu.Lock()
	status, response := tb.tradeStatus, tb.tradeResponse
	tb.mu.Unlock()

	if status != http.StatusOK {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&response)
}

func (tb *testBackend) setTradeResponse(status int, response *tradeExecResponse) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.tradeStatus = status
	if response != nil {
		tb.tradeResponse = *response
	}
}

func newTestClient(t *testing.T, tb *testBackend) *Client {
	t.Helper()
	c, err := New(tb.server.URL, nil, &Options{ReconnectInterval: 10 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func waitConn(t *testing.T, tb *testBackend) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-tb.connCh:
		return conn
	case <-time.After(5 * time.Second):
		t.Fatal("wanted a websocket connection, got none")
	}
	return nil
}

func waitConnState(t *testing.T, c *Client, state string) {
	t.Helper()
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); {
		if c.ConnState() == state {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("connection did not reach state %q", state)
}

func waitData(t *testing.T, ch chan json.RawMessage) json.RawMessage {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(5 * time.Second):
		t.Fatal("wanted a frame payload, got none")
	}
	return nil
}

func TestNewChecks(t *testing.T) {
	if _, err := New("ftp://127.0.0.1:8081", nil, nil); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted %v, got %v", os.ErrInvalid, err)
	}

	c, err := New("http://127.0.0.1:8081", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if v := c.wsURL.String(); v != "ws://127.0.0.1:8081/ws" {
		t.Fatalf("wanted the derived websocket url, got %q", v)
	}
	if v := c.tradeURL.String(); v != "http://127.0.0.1:8081/api/trade" {
		t.Fatalf("wanted the derived trade url, got %q", v)
	}
}

func TestFrameDispatch(t *testing.T) {
	tb := newTestBackend(t)
	c := newTestClient(t, tb)

	updateCh := make(chan json.RawMessage, 16)
	logCh := make(chan json.RawMessage, 16)
	c.AddHandler("update", func(ctx context.Context, data json.RawMessage) error {
		updateCh <- data
		return nil
	})
	c.AddHandler("log", func(ctx context.Context, data json.RawMessage) error {
		logCh <- data
		return nil
	})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	conn := waitConn(t, tb)
	defer conn.Close()

	// The initial snapshot arrives bare, with no frame envelope, and must
	// reach the update handler whole.
	snapshot := `{"wallet":{"address":"0xabc","balance":1.5,"network":"testnet"}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(snapshot)); err != nil {
		t.Fatal(err)
	}
	var state struct {
		Wallet struct {
			Address string `json:"address"`
		} `json:"wallet"`
	}
	if err := json.Unmarshal(waitData(t, updateCh), &state); err != nil {
		t.Fatal(err)
	}
	if state.Wallet.Address != "0xabc" {
		t.Fatalf("wanted the bare snapshot at the update handler, got wallet %q", state.Wallet.Address)
	}

	// Enveloped frames go to the handler registered for their type.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"log","data":{"level":"info","message":"bot started"}}`)); err != nil {
		t.Fatal(err)
	}
	var event struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(waitData(t, logCh), &event); err != nil {
		t.Fatal(err)
	}
	if event.Message != "bot started" {
		t.Fatalf(`wanted the log frame payload, got message %q`, event.Message)
	}

	// Frames of an unregistered type fall back to the update handler.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"mystery","data":{"wallet":{"address":"0xdef"}}}`)); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(waitData(t, updateCh), &state); err != nil {
		t.Fatal(err)
	}
	if state.Wallet.Address != "0xdef" {
		t.Fatalf("wanted the unknown frame at the update handler, got wallet %q", state.Wallet.Address)
	}

	// A malformed envelope is dropped without ending the session.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":123}`)); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"log","data":{"message":"still here"}}`)); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(waitData(t, logCh), &event); err != nil {
		t.Fatal(err)
	}
	if event.Message != "still here" {
		t.Fatalf("wanted the session to survive a malformed frame, got message %q", event.Message)
	}
}

func TestMalformedFrameKeepsSession(t *testing.T) {
	tb := newTestBackend(t)
	c := newTestClient(t, tb)

	logCh := make(chan json.RawMessage, 16)
	c.AddHandler("update", func(ctx context.Context, data json.RawMessage) error {
		return nil
	})
	c.AddHandler("log", func(ctx context.Context, data json.RawMessage) error {
		logCh <- data
		return nil
	})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	conn := waitConn(t, tb)
	defer conn.Close()
	waitConnState(t, c, "CONNECTED")

	// A frame that is not even valid JSON is dropped like any other
	// malformed frame; the session keeps reading and later frames still
	// reach their handlers.
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{invalid json`)); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"log","data":{"message":"after garbage"}}`)); err != nil {
		t.Fatal(err)
	}
	var event struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(waitData(t, logCh), &event); err != nil {
		t.Fatal(err)
	}
	if event.Message != "after garbage" {
		t.Fatalf("wanted the frame after the garbage, got message %q", event.Message)
	}

	// The client must not have redialed.
	select {
	case conn2 := <-tb.connCh:
		conn2.Close()
		t.Fatal("wanted the session to survive a garbage frame, got a redial")
	default:
	}
	if v := c.ConnState(); v != "CONNECTED" {
		t.Fatalf("wanted CONNECTED, got %q", v)
	}
}

func TestReconnect(t *testing.T) {
	tb := newTestBackend(t)
	c := newTestClient(t, tb)
	c.AddHandler("update", func(ctx context.Context, data json.RawMessage) error {
		return nil
	})
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); !errors.Is(err, os.ErrExist) {
		t.Fatalf("wanted %v, got %v", os.ErrExist, err)
	}

	conn1 := waitConn(t, tb)
	waitConnState(t, c, "CONNECTED")

	// Killing the session from the backend side must produce a redial.
	conn1.Close()
	conn2 := waitConn(t, tb)
	defer conn2.Close()
	waitConnState(t, c, "CONNECTED")

	receiver, err := c.ConnStateUpdates()
	if err != nil {
		t.Fatal(err)
	}
	defer receiver.Close()
	statesCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		t.Fatal(err)
	}
	for deadline := time.Now().Add(5 * time.Second); ; {
		select {
		case state := <-statesCh:
			if state == "CONNECTED" {
				return
			}
		case <-time.After(time.Until(deadline)):
			t.Fatal("wanted a CONNECTED state update, got none")
		}
	}
}

func TestSendCommands(t *testing.T) {
	tb := newTestBackend(t)
	c := newTestClient(t, tb)
	c.AddHandler("update", func(ctx context.Context, data json.RawMessage) error {
		return nil
	})

	// Commands without a session are dropped, not queued forever.
	if err := c.StartBot(); !errors.Is(err, syscall.ENOTCONN) {
		t.Fatalf("wanted %v, got %v", syscall.ENOTCONN, err)
	}

	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	conn := waitConn(t, tb)
	defer conn.Close()
	waitConnState(t, c, "CONNECTED")

	if err := c.StartBot(); err != nil {
		t.Fatal(err)
	}
	settings := &gobs.Settings{}
	settings.Trading.GasLimit = 500000
	settings.Trading.MaxSlippage = decimal.RequireFromString("0.5")
	if err := c.UpdateSettings(settings); err != nil {
		t.Fatal(err)
	}
	if err := c.AddPair("0xabc"); err != nil {
		t.Fatal(err)
	}

	wanted := []string{"start", "update_settings", "add_pair"}
	for i := 0; i < len(wanted); i++ {
		var msg ActionMessage
		select {
		case raw := <-tb.recvCh:
			if err := json.Unmarshal(raw, &msg); err != nil {
				t.Fatal(err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("wanted %d outbound messages, got %d", len(wanted), i)
		}
		if msg.Action != wanted[i] {
			t.Fatalf("wanted action %q, got %q", wanted[i], msg.Action)
		}
		switch msg.Action {
		case "update_settings":
			if msg.Settings == nil || msg.Settings.Trading.GasLimit != 500000 {
				t.Fatalf("wanted the settings payload, got %+v", msg.Settings)
			}
		case "add_pair":
			if msg.Address != "0xabc" {
				t.Fatalf("wanted address 0xabc, got %q", msg.Address)
			}
		default:
			if msg.Settings != nil || len(msg.Address) != 0 {
				t.Fatalf("wanted a bare action message, got %+v", msg)
			}
		}
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	tb := newTestBackend(t)
	c := newTestClient(t, tb)

	// Trades go over http, so no websocket session is required.
	size := decimal.RequireFromString("1.25")
	if err := c.Execute(ctx, "client-1", "SELL", "0xabc", size); err != nil {
		t.Fatal(err)
	}
	req := <-tb.tradeCh
	if req.Action != "sell" || req.TokenAddress != "0xabc" || !req.Amount.Equal(size) {
		t.Fatalf("unexpected trade request %+v", req)
	}
	if req.ClientOrderID != "client-1" {
		t.Fatalf("wanted client order id client-1, got %q", req.ClientOrderID)
	}

	if err := c.Execute(ctx, "client-2", "BUY", "0xabc", size); err != nil {
		t.Fatal(err)
	}
	if req := <-tb.tradeCh; req.Action != "buy" {
		t.Fatalf("wanted action buy, got %q", req.Action)
	}

	// A backend rejection becomes an error carrying the backend's reason.
	tb.setTradeResponse(http.StatusOK, &tradeExecResponse{Success: false, Error: "insufficient liquidity"})
	err := c.Execute(ctx, "client-3", "SELL", "0xabc", size)
	if err == nil || !strings.Contains(err.Error(), "insufficient liquidity") {
		t.Fatalf("wanted the rejection reason, got %v", err)
	}
	<-tb.tradeCh

	tb.setTradeResponse(http.StatusInternalServerError, nil)
	if err := c.Execute(ctx, "client-4", "SELL", "0xabc", size); err == nil {
		t.Fatal("wanted an error for a failed http request")
	}
	<-tb.tradeCh

	// An invalid side never reaches the backend.
	if err := c.Execute(ctx, "client-5", "HOLD", "0xabc", size); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted %v, got %v", os.ErrInvalid, err)
	}
	select {
	case req := <-tb.tradeCh:
		t.Fatalf("unexpected trade request %+v", req)
	default:
	}
}
