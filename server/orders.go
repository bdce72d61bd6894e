// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"context"
	"fmt"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/orderbook"
)

func (s *Server) doOrderAdd(ctx context.Context, req *api.OrderAddRequest) (*api.OrderAddResponse, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("invalid order add request: %w", err)
	}

	order, err := s.book.Submit(ctx, &orderbook.SubmitRequest{
		Side:     req.Side,
		Asset:    req.Asset,
		Size:     req.Size,
		Price:    req.Price,
		Deadline: req.Deadline,
	})
	if err != nil {
		return nil, err
	}

	resp := &api.OrderAddResponse{
		ID:     order.ID,
		Status: order.Status,
	}
	return resp, nil
}

func (s *Server) doOrderCancel(ctx context.Context, req *api.OrderCancelRequest) (*api.OrderCancelResponse, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("invalid order cancel request: %w", err)
	}

	status, err := s.book.Cancel(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	resp := &api.OrderCancelResponse{
		FinalStatus: status,
	}
	return resp, nil
}

func (s *Server) doOrderGet(ctx context.Context, req *api.OrderGetRequest) (*api.OrderGetResponse, error) {
	if err := req.Check(); err != nil {
		return nil, fmt.Errorf("invalid order get request: %w", err)
	}

	order, err := s.book.Get(req.ID)
	if err != nil {
		return nil, fmt.Errorf("could not get order %d: %w", req.ID, err)
	}
	return &api.OrderGetResponse{Order: order}, nil
}

func (s *Server) doOrderList(ctx context.Context, req *api.OrderListRequest) (*api.OrderListResponse, error) {
	resp := &api.OrderListResponse{
		Orders: s.book.List(req.ActiveOnly),
	}
	return resp, nil
}
