// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bvk/tradedash/backend"
	"github.com/bvk/tradedash/ctxutil"
	"github.com/bvk/tradedash/orderbook"
	"github.com/bvk/tradedash/prices"
	"github.com/bvk/tradedash/pushover"
	"github.com/bvk/tradedash/session"
	"github.com/bvk/tradedash/telegram"
	"github.com/bvkgo/kv"
	"github.com/shirou/gopsutil/v4/process"
)

// Server wires the price cache, session store, backend client and the order
// book together and serves the daemon's HTTP API on top of them.
type Server struct {
	cg ctxutil.CloseGroup

	opts Options

	db kv.Database

	state *session.Store

	prices *prices.Cache

	backend *backend.Client

	book *orderbook.Book

	telegramClient *telegram.Client

	pushoverClient *pushover.Client

	proc *process.Process

	startTime time.Time

	// alertFreezeDeadlineMap is keyed by alert subject and shared by the
	// alert watchers. See alerts.go.
	alertMu                sync.Mutex
	alertFreezeDeadlineMap map[string]time.Time
}

func New(ctx context.Context, secrets *Secrets, db kv.Database, opts *Options) (_ *Server, status error) {
	if db == nil {
		return nil, os.ErrInvalid
	}
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	if secrets == nil {
		secrets = new(Secrets)
	}
	if err := secrets.Check(); err != nil {
		return nil, err
	}

	s := &Server{
		opts:                   *opts,
		db:                     db,
		startTime:              time.Now(),
		alertFreezeDeadlineMap: make(map[string]time.Time),
	}

	state, err := session.New(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("could not load session state: %w", err)
	}
	s.state = state
	defer func() {
		if status != nil {
			state.Close()
		}
	}()

	s.prices = prices.NewCache()
	defer func() {
		if status != nil {
			s.prices.Close()
		}
	}()

	bopts := &backend.Options{
		ReconnectInterval: opts.ReconnectInterval,
	}
	bclient, err := backend.New(opts.BackendAddress, secrets.Backend, bopts)
	if err != nil {
		return nil, fmt.Errorf("could not create backend client: %w", err)
	}
	s.backend = bclient
	defer func() {
		if status != nil {
			bclient.Close()
		}
	}()

	// Frames of unrecognized kinds also end up at the "update" handler.
	bclient.AddHandler("update", s.handleStateFrame)
	bclient.AddHandler("state", s.handleStateFrame)
	bclient.AddHandler("log", s.handleLogFrame)
	bclient.AddHandler("settings", s.handleSettingsFrame)
	bclient.AddHandler("price_update", s.handlePriceFrame)
	bclient.AddHandler("transaction", s.handleTransactionFrame)

	book, err := orderbook.New(db, s.prices, bclient, &orderbook.Options{
		TickInterval: opts.OrderTickInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create order book: %w", err)
	}
	s.book = book
	defer func() {
		if status != nil {
			book.Close()
		}
	}()

	if secrets.Telegram != nil {
		tclient, err := telegram.New(ctx, db, secrets.Telegram)
		if err != nil {
			return nil, fmt.Errorf("could not create telegram client: %w", err)
		}
		s.telegramClient = tclient
		defer func() {
			if status != nil {
				tclient.Close()
			}
		}()
	}

	if secrets.Pushover != nil {
		pclient, err := pushover.New(secrets.Pushover)
		if err != nil {
			return nil, fmt.Errorf("could not create pushover client: %w", err)
		}
		s.pushoverClient = pclient
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("could not open self process stats: %w", err)
	}
	s.proc = proc

	return s, nil
}

func (s *Server) Close() error {
	s.cg.Close()
	s.book.Close()
	if err := s.backend.Close(); err != nil {
		slog.Error("could not close backend client (ignored)", "err", err)
	}
	if s.telegramClient != nil {
		if err := s.telegramClient.Close(); err != nil {
			slog.Error("could not close telegram client (ignored)", "err", err)
		}
	}
	s.prices.Close()
	s.state.Close()
	return nil
}

// Start resumes saved orders, begins the backend connect loop and spawns the
// alert watchers. It must be called at most once.
func (s *Server) Start(ctx context.Context) error {
	if !s.opts.NoResume {
		if err := s.book.Load(ctx); err != nil {
			return fmt.Errorf("could not restore saved limit orders: %w", err)
		}
	}

	if err := s.backend.Start(); err != nil {
		return err
	}

	s.cg.Go(func(ctx context.Context) {
		if err := s.watchConnState(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "connection state watcher has failed", "err", err)
		}
	})
	s.cg.Go(func(ctx context.Context) {
		if err := s.watchSessionState(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "session state watcher has failed", "err", err)
		}
	})
	s.cg.Go(func(ctx context.Context) {
		if err := s.watchOrderEvents(ctx); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "order event watcher has failed", "err", err)
		}
	})

	if err := s.AddTelegramCommand(ctx, "status", "Prints backend connection and bot status", s.statusTelegramCmd); err != nil {
		return err
	}
	if err := s.AddTelegramCommand(ctx, "orders", "Prints limit orders under monitoring", s.ordersTelegramCmd); err != nil {
		return err
	}
	return nil
}

// SendMessage sends an operator notification through all the configured
// notification services. Delivery failures are logged and ignored.
func (s *Server) SendMessage(ctx context.Context, at time.Time, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if s.telegramClient != nil {
		if err := s.telegramClient.SendMessage(ctx, at, text); err != nil {
			slog.ErrorContext(ctx, "could not send telegram message (ignored)", "err", err)
		}
	}
	if s.pushoverClient != nil {
		if err := s.pushoverClient.SendMessage(ctx, at, text); err != nil {
			slog.ErrorContext(ctx, "could not send pushover message (ignored)", "err", err)
		}
	}
}
