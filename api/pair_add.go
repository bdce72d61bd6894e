// Copyright (c) 2025 BVK Chaitanya

package api

const PairAddPath = "/pair/add"

type PairAddRequest struct {
	Address string
}

type PairAddResponse struct {
}
