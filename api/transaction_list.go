// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"time"

	"github.com/bvk/tradedash/session"
)

const TransactionListPath = "/transactions/list"

type TransactionListRequest struct {
	// Begin and End restrict the response to records received within
	// [Begin, End). Zero values leave that side unbounded.
	Begin time.Time
	End   time.Time
}

type TransactionListResponse struct {
	// Transactions are ordered newest first.
	Transactions []*session.TransactionRecord
}
