// Copyright (c) 2025 BVK Chaitanya

package httputil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Server is a http server with a dynamic handler map. Handlers can be added
// and removed at any time, including after the server has started listening.
type Server struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	wg     sync.WaitGroup

	opts Options

	server atomic.Pointer[http.Server]

	mux atomic.Pointer[http.ServeMux]

	mutex      sync.Mutex
	handlerMap map[string]http.Handler
}

// New creates a http server. The server does not listen anywhere until
// StartTCP is called.
func New(opts *Options) (*Server, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	s := &Server{
		ctx:        ctx,
		cancel:     cancel,
		opts:       *opts,
		handlerMap: make(map[string]http.Handler),
	}
	s.updateHandlerMux()
	return s, nil
}

func (s *Server) Close() error {
	s.cancel(os.ErrClosed)
	if svr := s.server.Load(); svr != nil {
		svr.Close()
	}
	s.wg.Wait()
	return nil
}

func (s *Server) sleep(d time.Duration) error {
	select {
	case <-s.ctx.Done():
		return context.Cause(s.ctx)
	case <-time.After(d):
		return nil
	}
}

// StartTCP starts listening on the given address and verifies that the
// server is responding with a test request. When the input port is zero, the
// chosen port is written back into the addr argument.
func (s *Server) StartTCP(ctx context.Context, addr *net.TCPAddr) (status error) {
	if s.server.Load() != nil {
		return os.ErrExist
	}

	l, err := net.Listen("tcp", addr.String())
	if err != nil {
		return err
	}
	defer func() {
		if status != nil {
			l.Close()
		}
	}()

	if addr.Port == 0 {
		laddr, ok := l.Addr().(*net.TCPAddr)
		if !ok {
			return fmt.Errorf("created listener addr is not *net.TCPAddr type")
		}
		addr.Port = laddr.Port
	}

	testPath := "/" + uuid.New().String()
	testHandler := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		slog.Info("received server test request", "addr", addr, "from", r.RemoteAddr)
	})
	s.AddHandler(testPath, testHandler)
	defer s.RemoveHandler(testPath)

	server := &http.Server{
		Handler: s,
		BaseContext: func(net.Listener) context.Context {
			return s.ctx
		},
	}
	defer func() {
		if status != nil {
			server.Close()
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				slog.Error("CAUGHT PANIC", "panic", r)
				slog.Error(string(debug.Stack()))
				panic(r)
			}
		}()

		for s.ctx.Err() == nil {
			if err := server.Serve(l); err != nil {
				if !errors.Is(err, http.ErrServerClosed) {
					slog.ErrorContext(ctx, "http server failed", "error", err)
				}
			}
		}
	}()

	c := http.Client{
		Timeout: s.opts.ServerCheckTimeout,
	}
	u := url.URL{
		Scheme: "http",
		Host:   l.Addr().String(),
		Path:   testPath,
	}

	tctx, tcancel := context.WithTimeout(ctx, s.opts.ServerCheckTimeout)
	defer tcancel()

	for tctx.Err() == nil {
		r, err := http.NewRequestWithContext(tctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return err
		}
		resp, err := c.Do(r)
		if err != nil {
			s.sleep(s.opts.ServerCheckRetryInterval)
			continue
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			continue
		}
		break
	}

	if err := context.Cause(tctx); err != nil {
		return fmt.Errorf("could not invoke test handler: %w", err)
	}

	s.server.Store(server)
	return nil
}

func (s *Server) AddHandler(pattern string, handler http.Handler) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.handlerMap[pattern] = handler
	s.updateHandlerMux()
}

func (s *Server) RemoveHandler(pattern string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.handlerMap[pattern]; !ok {
		return false
	}
	delete(s.handlerMap, pattern)
	s.updateHandlerMux()
	return true
}

func (s *Server) updateHandlerMux() {
	m := http.NewServeMux()
	for k, v := range s.handlerMap {
		m.Handle(k, v)
	}
	s.mux.Store(m)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.Load().ServeHTTP(w, r)
}
