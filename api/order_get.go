// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/tradedash/gobs"

const OrderGetPath = "/order/get"

type OrderGetRequest struct {
	ID int64
}

type OrderGetResponse struct {
	Order *gobs.LimitOrderState
}
