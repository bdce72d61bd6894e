// Copyright (c) 2025 BVK Chaitanya

package backend

import (
	"encoding/json"

	"github.com/bvk/tradedash/gobs"
	"github.com/shopspring/decimal"
)

// Frame is one inbound websocket message. Payloads normally arrive wrapped
// as {"type": ..., "data": ...}; the initial snapshot arrives bare with no
// envelope at all, in which case Type is empty and Data is nil and the whole
// message is the state-update payload.
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ActionMessage is one outbound websocket message. Settings and Address are
// included only for the actions that carry them.
type ActionMessage struct {
	Action string `json:"action"`

	Settings *gobs.Settings `json:"settings,omitempty"`

	Address string `json:"address,omitempty"`
}

// PriceUpdate is the data payload of a price_update frame.
type PriceUpdate struct {
	TokenAddress string          `json:"token_address"`
	Price        decimal.Decimal `json:"price"`
}

// tradeExecRequest is the body of a trade request POSTed to the backend.
// The client order id is advisory: backends that track it can deduplicate a
// repeated request, and ones that do not simply ignore the field.
type tradeExecRequest struct {
	Action        string          `json:"action"`
	TokenAddress  string          `json:"token_address"`
	Amount        decimal.Decimal `json:"amount"`
	ClientOrderID string          `json:"client_order_id,omitempty"`
}

type tradeExecResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
