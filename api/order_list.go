// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/tradedash/gobs"

const OrderListPath = "/order/list"

type OrderListRequest struct {
	// ActiveOnly restricts the response to orders still under monitoring.
	ActiveOnly bool
}

type OrderListResponse struct {
	Orders []*gobs.LimitOrderState
}
