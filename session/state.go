// Copyright (c) 2025 BVK Chaitanya

package session

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// State is the last-known backend snapshot. Field names and tags follow the
// backend's wire format; numeric values may arrive as JSON numbers or quoted
// strings, which decimal.Decimal accepts either way.
type State struct {
	Wallet WalletInfo `json:"wallet"`

	Trading TradingStats `json:"trading"`

	Gas GasInfo `json:"gas"`

	Pairs []PairInfo `json:"pairs"`
}

type WalletInfo struct {
	Address string          `json:"address"`
	Balance decimal.Decimal `json:"balance"`
	Network string          `json:"network"`
}

type TradingStats struct {
	Total      int64           `json:"total"`
	Successful int64           `json:"successful"`
	PnL        decimal.Decimal `json:"pnl"`
}

type GasInfo struct {
	Current decimal.Decimal `json:"current"`
	Limit   int64           `json:"limit"`
	Max     decimal.Decimal `json:"max"`
}

type PairInfo struct {
	Name      string          `json:"name"`
	Address   string          `json:"address"`
	Price     decimal.Decimal `json:"price"`
	Change24h decimal.Decimal `json:"change24h"`
	Liquidity decimal.Decimal `json:"liquidity"`
}

// Update is a partial snapshot carried by a state or update frame. A nil
// sub-object means the frame did not carry that sub-object; a present
// sub-object replaces the stored one wholesale.
type Update struct {
	Wallet  *WalletInfo   `json:"wallet"`
	Trading *TradingStats `json:"trading"`
	Gas     *GasInfo      `json:"gas"`

	// Pairs is nil when absent from the frame; an explicit empty list
	// clears the stored pair list.
	Pairs []PairInfo `json:"pairs"`
}

// LogEvent is one activity-log entry from the backend. Level is one of
// "info", "warning", "error" or "success".
type LogEvent struct {
	Level   string `json:"level"`
	Message string `json:"message"`

	// Timestamp is kept as the backend sent it (a float seconds value in
	// practice, but the format is not ours to validate).
	Timestamp json.RawMessage `json:"timestamp,omitempty"`

	ReceivedAt time.Time `json:"receivedAt"`
}

// TransactionRecord is one completed backend transaction.
type TransactionRecord struct {
	// Timestamp is passed through unparsed; backends disagree on its
	// format.
	Timestamp json.RawMessage `json:"timestamp,omitempty"`

	Type         string          `json:"type"`
	TokenAddress string          `json:"tokenAddress"`
	Amount       decimal.Decimal `json:"amount"`
	Price        decimal.Decimal `json:"price"`
	GasUsed      decimal.Decimal `json:"gasUsed"`
	Status       string          `json:"status"`
	TxHash       string          `json:"txHash"`

	// ReceivedAt is the local receipt time, used for time-range filters.
	ReceivedAt time.Time `json:"receivedAt"`
}

func (s *State) clone() *State {
	c := *s
	c.Pairs = make([]PairInfo, len(s.Pairs))
	copy(c.Pairs, s.Pairs)
	return &c
}
