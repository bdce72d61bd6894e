// Copyright (c) 2023 BVK Chaitanya

package subcmds

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Trade struct {
	cmdutil.ClientFlags
}

func (c *Trade) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("trade", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "trade", fset, cli.CmdFunc(c.run)
}

func (c *Trade) Purpose() string {
	return "Asks the trading bot to trade a token"
}

func (c *Trade) Description() string {
	return `

Command "trade" asks the trading bot to evaluate and trade the given token
immediately. The bot applies its own strategy; this command only submits the
token address and reports whether the backend accepted the instruction.

`
}

func (c *Trade) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (token address) argument")
	}

	req := &api.TradeRequest{
		Address: args[0],
	}
	if _, err := cmdutil.Post[api.TradeResponse](ctx, &c.ClientFlags, api.TradePath, req); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}
