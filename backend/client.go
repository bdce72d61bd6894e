// Copyright (c) 2025 BVK Chaitanya

// Package backend manages the daemon's connection to the trading backend:
// the websocket state-sync session with automatic reconnection, the outbound
// command messages and the synchronous trade execution requests.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"github.com/bvk/tradedash/ctxutil"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
	"golang.org/x/time/rate"
	jose "gopkg.in/square/go-jose.v2"
	"gopkg.in/square/go-jose.v2/jwt"
)

// FrameHandler consumes the data payload of one inbound frame. Handlers run
// on the session reader goroutine, so inbound frames are processed in
// arrival order.
type FrameHandler = func(ctx context.Context, data json.RawMessage) error

type Client struct {
	lifeCtx    context.Context
	lifeCancel context.CancelCauseFunc

	wg sync.WaitGroup

	opts Options

	wsURL    *url.URL
	tradeURL *url.URL

	client http.Client

	limiter *rate.Limiter

	creds  *Credentials
	signer jose.Signer

	// handlerMap is keyed by frame type. It must be fully populated with
	// AddHandler before Start and not changed afterwards.
	handlerMap map[string]FrameHandler

	sendCh chan *ActionMessage

	connStateTopic *topic.Topic[string]

	mu sync.Mutex

	connState string

	started bool
}

// New creates a stopped client for the backend at the given base address
// (e.g., "http://127.0.0.1:8081"). The websocket endpoint /ws and the trade
// endpoint /api/trade are derived from it. Credentials are optional; when
// nil the session and trade requests are unauthenticated.
func New(address string, creds *Credentials, opts *Options) (*Client, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()

	base, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("could not parse backend address %q: %w", address, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend address scheme %q is unsupported: %w", base.Scheme, os.ErrInvalid)
	}
	wsURL := &url.URL{
		Scheme: "ws",
		Host:   base.Host,
		Path:   path.Join("/", base.Path, "/ws"),
	}
	if base.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	tradeURL := &url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   path.Join("/", base.Path, "/api/trade"),
	}

	lifeCtx, lifeCancel := context.WithCancelCause(context.Background())
	c := &Client{
		lifeCtx:    lifeCtx,
		lifeCancel: lifeCancel,
		opts:       *opts,
		wsURL:      wsURL,
		tradeURL:   tradeURL,
		client: http.Client{
			Timeout: opts.HttpClientTimeout,
		},
		limiter:        rate.NewLimiter(5, 1),
		creds:          creds,
		handlerMap:     make(map[string]FrameHandler),
		sendCh:         make(chan *ActionMessage, opts.SendQueueSize),
		connStateTopic: topic.New[string](),
		connState:      "DISCONNECTED",
	}
	if creds != nil {
		signer, err := creds.signer()
		if err != nil {
			return nil, err
		}
		c.signer = signer
	}
	return c, nil
}

// Close stops the reconnect loop and releases resources.
func (c *Client) Close() error {
	c.lifeCancel(os.ErrClosed)
	c.wg.Wait()
	c.connStateTopic.Close()
	return nil
}

// AddHandler registers the handler for a frame type. Frames of an
// unregistered type fall back to the "update" handler. AddHandler must not
// be called after Start.
func (c *Client) AddHandler(kind string, handler FrameHandler) {
	c.handlerMap[kind] = handler
}

// Start begins the reconnect-forever loop in the background. Returns
// os.ErrExist if the client was already started.
func (c *Client) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return os.ErrExist
	}
	c.started = true

	c.wg.Add(1)
	go c.goGetMessages(c.lifeCtx)
	return nil
}

// ConnState returns the connection state: DISCONNECTED, CONNECTING or
// CONNECTED.
func (c *Client) ConnState() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connState
}

// ConnStateUpdates returns a receiver for connection state transitions.
func (c *Client) ConnStateUpdates() (*topic.Receiver[string], error) {
	return topic.Subscribe(c.connStateTopic, 1, true)
}

func (c *Client) setConnState(state string) {
	c.mu.Lock()
	old := c.connState
	c.connState = state
	c.mu.Unlock()
	if old == state {
		return
	}
	slog.Info("backend connection state has changed", "old", old, "new", state)
	c.connStateTopic.Send(state)
}

// send enqueues an outbound message. Messages enqueued while CONNECTING are
// flushed once the session is connected. When the client is DISCONNECTED, or
// the queue is full, the message is dropped with a warning and
// syscall.ENOTCONN is returned; callers must not assume delivery either way.
func (c *Client) send(msg *ActionMessage) error {
	if c.ConnState() == "DISCONNECTED" {
		slog.Warn("backend is disconnected; outbound message dropped", "action", msg.Action)
		return fmt.Errorf("cannot send %q: %w", msg.Action, syscall.ENOTCONN)
	}
	select {
	case c.sendCh <- msg:
		return nil
	default:
		slog.Warn("outbound message queue is full; message dropped", "action", msg.Action)
		return fmt.Errorf("cannot send %q: %w", msg.Action, syscall.ENOTCONN)
	}
}

func (c *Client) goGetMessages(ctx context.Context) {
	defer c.wg.Done()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("CAUGHT PANIC", "panic", r)
			slog.Error(string(debug.Stack()))
			panic(r)
		}
	}()

	for ctx.Err() == nil {
		if err := c.runSession(ctx); err != nil {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, context.Canceled) {
				slog.Warn("backend websocket session has ended (will reconnect)", "err", err)
			}
		}
		ctxutil.Sleep(ctx, c.opts.ReconnectInterval)
	}
}

// runSession dials the websocket and runs one session until it fails or the
// context is canceled.
func (c *Client) runSession(ctx context.Context) (status error) {
	defer c.setConnState("DISCONNECTED")
	c.setConnState("CONNECTING")

	ctx, cancel := context.WithCancelCause(ctx)
	defer func() {
		if status != nil {
			cancel(status)
		} else {
			cancel(os.ErrClosed)
		}
	}()

	dialer := websocket.Dialer{
		HandshakeTimeout:  c.opts.DialTimeout,
		EnableCompression: true,
	}
	var header http.Header
	if c.signer != nil {
		token, err := c.signJWT(fmt.Sprintf("GET %s%s", c.wsURL.Host, c.wsURL.Path))
		if err != nil {
			return err
		}
		header = http.Header{"Authorization": []string{"Bearer " + token}}
	}
	conn, _, err := dialer.DialContext(ctx, c.wsURL.String(), header)
	if err != nil {
		return fmt.Errorf("could not dial backend websocket %q: %w", c.wsURL, err)
	}
	defer conn.Close()

	c.setConnState("CONNECTED")

	var wg sync.WaitGroup
	defer wg.Wait()

	// Start a message reader in the background.
	wg.Add(1)
	go func() {
		defer wg.Done()

		defer func() {
			if r := recover(); r != nil {
				slog.Error("CAUGHT PANIC", "panic", r)
				slog.Error(string(debug.Stack()))
				panic(r)
			}
		}()

		for ctx.Err() == nil {
			msg, err := c.readMessage(ctx, conn)
			if err != nil {
				if !errors.Is(err, os.ErrClosed) && !errors.Is(err, context.Canceled) {
					slog.Warn("could not read backend websocket message", "err", err)
				}
				cancel(err)
				return
			}
			// Malformed frames are dropped; only transport errors end
			// the session.
			if err := c.handleMessage(ctx, msg); err != nil {
				slog.Error("could not handle backend message (dropped)", "err", err)
				continue
			}
		}
	}()

	// Start a message writer in the background. Messages still queued when
	// a session dies stay in the channel and are flushed by the next
	// session's writer.
	wg.Add(1)
	go func() {
		defer wg.Done()

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

			case msg := <-c.sendCh:
				if err := conn.WriteJSON(msg); err != nil {
					slog.Error("could not send outbound message", "action", msg.Action, "err", err)
					cancel(err)
					return
				}
			}
		}
	}()

	<-ctx.Done()
	return context.Cause(ctx)
}

func (c *Client) readMessage(ctx context.Context, conn *websocket.Conn) ([]byte, error) {
	stopc := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
		close(stopc)
	})

	_, msg, err := conn.ReadMessage()
	if !stop() {
		// The AfterFunc was started. Wait for it to complete, and reset
		// the Conn's deadline.
		<-stopc
		conn.SetReadDeadline(time.Time{})
		return nil, context.Cause(ctx)
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// handleMessage dispatches one inbound frame to the handler registered for
// its type. Unrecognized types and bare unwrapped payloads go to the
// "update" handler, which keeps the daemon compatible with backends that add
// new frame types.
func (c *Client) handleMessage(ctx context.Context, msg json.RawMessage) error {
	frame := new(Frame)
	if err := json.Unmarshal([]byte(msg), frame); err != nil {
		return fmt.Errorf("could not unmarshal frame envelope: %w", err)
	}

	kind, data := frame.Type, frame.Data
	if len(kind) == 0 {
		// The initial snapshot arrives with no envelope.
		kind = "update"
		if data == nil {
			data = msg
		}
	}

	handler, ok := c.handlerMap[kind]
	if !ok {
		if handler, ok = c.handlerMap["update"]; !ok {
			slog.Warn("no handler for inbound frame type (ignored)", "type", frame.Type)
			return nil
		}
	}
	return handler(ctx, data)
}

type apiKeyClaims struct {
	*jwt.Claims
	URI string `json:"uri"`
}

func (c *Client) signJWT(uri string) (string, error) {
	cl := &apiKeyClaims{
		Claims: &jwt.Claims{
			Subject:   c.creds.KeyName,
			Issuer:    "tradedash",
			NotBefore: jwt.NewNumericDate(time.Now()),
			Expiry:    jwt.NewNumericDate(time.Now().Add(2 * time.Minute)),
		},
		URI: uri,
	}
	return jwt.Signed(c.signer).Claims(cl).CompactSerialize()
}

// Execute issues one synchronous trade request to the backend. Side must be
// BUY or SELL. A transport failure or a backend rejection comes back as an
// ordinary error; Execute never retries on its own.
func (c *Client) Execute(ctx context.Context, clientOrderID, side, asset string, size decimal.Decimal) error {
	var action string
	switch side {
	case "BUY":
		action = "buy"
	case "SELL":
		action = "sell"
	default:
		return fmt.Errorf("trade side %q is invalid: %w", side, os.ErrInvalid)
	}

	req := &tradeExecRequest{
		Action:        action,
		TokenAddress:  asset,
		Amount:        size,
		ClientOrderID: clientOrderID,
	}
	resp := new(tradeExecResponse)
	if err := c.postJSON(ctx, c.tradeURL, req, resp); err != nil {
		return err
	}
	if !resp.Success {
		if len(resp.Error) > 0 {
			return fmt.Errorf("backend rejected %s of %s %s: %s", action, size, asset, resp.Error)
		}
		return fmt.Errorf("backend rejected %s of %s %s", action, size, asset)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, addrURL *url.URL, request, resultPtr any) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addrURL.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.signer != nil {
		token, err := c.signJWT(fmt.Sprintf("%s %s%s", req.Method, req.URL.Host, req.URL.Path))
		if err != nil {
			return err
		}
		req.Header.Add("Authorization", "Bearer "+token)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("could not perform http post request", "url", addrURL, "err", err)
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http POST %s returned %d", addrURL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(resultPtr); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}
