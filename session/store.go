// Copyright (c) 2025 BVK Chaitanya

// Package session keeps the daemon's local mirror of the backend session:
// the last-known state snapshot, the settings object, the bot run-state and
// the capped activity/transaction logs.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/kvutil"
	"github.com/bvkgo/kv"
	"github.com/visvasity/topic"
)

// SettingsKey locates the last-known settings object in the database.
const SettingsKey = "/session/settings"

const maxTransactions = 100

const maxLogEvents = 100

// Store is written only by the backend message handler and the command
// dispatch path. Readers receive copies and can hold them without locks.
type Store struct {
	db kv.Database

	stateTopic *topic.Topic[*State]

	mu sync.Mutex

	state *State

	runState string

	settings *gobs.Settings

	transactions []*TransactionRecord

	logs []*LogEvent
}

// New creates a session store. Settings persisted by an earlier run are
// reloaded so the daemon starts with the last-known copy.
func New(ctx context.Context, db kv.Database) (*Store, error) {
	s := &Store{
		db:         db,
		runState:   "STOPPED",
		stateTopic: topic.New[*State](),
	}
	settings, err := kvutil.GetDB[gobs.Settings](ctx, db, SettingsKey)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load saved settings: %w", err)
	}
	if err == nil {
		s.settings = settings
	}
	return s, nil
}

func (s *Store) Close() {
	s.stateTopic.Close()
}

// ApplyUpdate replaces the snapshot sub-objects present in the update and
// publishes the new snapshot. Sub-objects absent from the update keep their
// stored values; present ones are replaced wholesale.
func (s *Store) ApplyUpdate(u *Update) {
	s.mu.Lock()
	if s.state == nil {
		s.state = new(State)
	}
	if u.Wallet != nil {
		s.state.Wallet = *u.Wallet
	}
	if u.Trading != nil {
		s.state.Trading = *u.Trading
	}
	if u.Gas != nil {
		s.state.Gas = *u.Gas
	}
	if u.Pairs != nil {
		s.state.Pairs = u.Pairs
	}
	snapshot := s.state.clone()
	s.mu.Unlock()

	s.stateTopic.Send(snapshot)
}

// State returns a copy of the last-known snapshot, or nil when no snapshot
// has arrived yet.
func (s *Store) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil
	}
	return s.state.clone()
}

// Subscribe returns a receiver for snapshot updates.
func (s *Store) Subscribe(limit int, recent bool) (*topic.Receiver[*State], error) {
	return topic.Subscribe(s.stateTopic, limit, recent)
}

// SetRunState records the bot run-state. The run-state is optimistic: it is
// set when a start/stop/pause command is accepted for transmission, not when
// the backend acknowledges it.
func (s *Store) SetRunState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runState = state
}

func (s *Store) RunState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runState
}

// ApplySettings replaces the settings object and persists it.
func (s *Store) ApplySettings(ctx context.Context, v *gobs.Settings) error {
	clone, err := gobs.Clone(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = clone
	s.mu.Unlock()

	if err := kvutil.SetDB(ctx, s.db, SettingsKey, clone); err != nil {
		return fmt.Errorf("could not save settings: %w", err)
	}
	return nil
}

// Settings returns a copy of the last-known settings, or nil when no
// settings object was ever received or persisted.
func (s *Store) Settings() (*gobs.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, nil
	}
	return gobs.Clone(s.settings)
}

// AddTransaction prepends a transaction record. Only the most recent
// maxTransactions records are kept.
func (s *Store) AddTransaction(rec *TransactionRecord) {
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = slices.Insert(s.transactions, 0, rec)
	if len(s.transactions) > maxTransactions {
		s.transactions = s.transactions[:maxTransactions]
	}
}

// Transactions returns the recent transaction records, newest first.
func (s *Store) Transactions() []*TransactionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.transactions)
}

// AddLogEvent prepends a backend activity-log entry. Only the most recent
// maxLogEvents entries are kept.
func (s *Store) AddLogEvent(ev *LogEvent) {
	if ev.ReceivedAt.IsZero() {
		ev.ReceivedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = slices.Insert(s.logs, 0, ev)
	if len(s.logs) > maxLogEvents {
		s.logs = s.logs[:maxLogEvents]
	}
}

// RecentLogs returns up to max recent activity-log entries, newest first.
func (s *Store) RecentLogs(max int) []*LogEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := min(max, len(s.logs))
	return slices.Clone(s.logs[:n])
}
