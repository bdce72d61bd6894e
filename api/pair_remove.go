// Copyright (c) 2025 BVK Chaitanya

package api

const PairRemovePath = "/pair/remove"

type PairRemoveRequest struct {
	Address string
}

type PairRemoveResponse struct {
}
