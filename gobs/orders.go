// Copyright (c) 2025 BVK Chaitanya

package gobs

import (
	"time"

	"github.com/shopspring/decimal"
)

type LimitOrderState struct {
	ID int64

	Side string

	// Asset is the token address in its canonical lowercase form.
	Asset string

	Size decimal.Decimal

	// Price is the limit price. A zero value means "at market": the order
	// triggers on the first tick with a known price.
	Price decimal.Decimal

	Deadline time.Time

	Status string

	CreatedAt time.Time

	// Client order id generator state. Offset is saved before every
	// execution attempt, so an attempt repeated after a restart reuses the
	// same client order id.
	IDSeed   string
	IDOffset uint64

	FilledAt    time.Time
	FilledPrice decimal.Decimal
}
