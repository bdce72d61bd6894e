// Copyright (c) 2025 BVK Chaitanya

package api

const OrderCancelPath = "/order/cancel"

type OrderCancelRequest struct {
	ID int64
}

type OrderCancelResponse struct {
	FinalStatus string
}
