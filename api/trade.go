// Copyright (c) 2025 BVK Chaitanya

package api

const TradePath = "/trade"

type TradeRequest struct {
	Address string
}

type TradeResponse struct {
}
