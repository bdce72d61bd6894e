// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"fmt"

	"github.com/bvk/tradedash/telegram"
	"github.com/visvasity/cli"
)

func (s *Server) AddTelegramCommand(ctx context.Context, name, purpose string, handler telegram.CmdFunc) error {
	if s.telegramClient != nil {
		return s.telegramClient.AddCommand(ctx, name, purpose, handler)
	}
	return nil // Ignored
}

func (s *Server) statusTelegramCmd(ctx context.Context, args []string) error {
	stdout := cli.Stdout(ctx)

	fmt.Fprintln(stdout, "Connection: ", s.backend.ConnState())
	fmt.Fprintln(stdout, "Bot: ", s.state.RunState())

	if state := s.state.State(); state != nil {
		fmt.Fprintf(stdout, "Wallet: %s %s on %s\n", state.Wallet.Balance, state.Wallet.Network, state.Wallet.Address)
		fmt.Fprintf(stdout, "Gas: %s gwei\n", state.Gas.Current)
		fmt.Fprintf(stdout, "Trades: %d total, %d successful, P/L %s\n",
			state.Trading.Total, state.Trading.Successful, state.Trading.PnL)
		fmt.Fprintf(stdout, "Pairs: %d\n", len(state.Pairs))
	}

	active, total := s.book.Counts()
	fmt.Fprintf(stdout, "Orders: %d active of %d\n", active, total)
	return nil
}

func (s *Server) ordersTelegramCmd(ctx context.Context, args []string) error {
	stdout := cli.Stdout(ctx)

	orders := s.book.List(true /* activeOnly */)
	if len(orders) == 0 {
		fmt.Fprintln(stdout, "No orders are under monitoring.")
		return nil
	}
	for _, order := range orders {
		if order.Price.IsZero() {
			fmt.Fprintf(stdout, "%d %s %s %s at market price\n", order.ID, order.Side, order.Size, order.Asset)
			continue
		}
		fmt.Fprintf(stdout, "%d %s %s %s at %s\n", order.ID, order.Side, order.Size, order.Asset, order.Price)
	}
	return nil
}
