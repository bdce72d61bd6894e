// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"time"

	"github.com/shopspring/decimal"
)

const OrderAddPath = "/order/add"

type OrderAddRequest struct {
	// Side must be BUY or SELL.
	Side string

	// Asset is the token contract address. Comparisons are case-insensitive;
	// the order book stores the lowercase form.
	Asset string

	Size decimal.Decimal

	// Price zero stands for "at the current market price".
	Price decimal.Decimal

	Deadline time.Time
}

type OrderAddResponse struct {
	// ID is zero when a market buy was executed immediately without
	// entering the order book.
	ID int64

	Status string
}
