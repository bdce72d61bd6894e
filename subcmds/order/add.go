// Copyright (c) 2025 BVK Chaitanya

package order

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"
)

type Add struct {
	cmdutil.ClientFlags

	side  string
	asset string

	size  float64
	price float64

	deadline string
}

func (c *Add) check() error {
	if c.side != "BUY" && c.side != "SELL" {
		return fmt.Errorf("side must be one of BUY or SELL")
	}
	if len(c.asset) == 0 {
		return fmt.Errorf("asset address cannot be empty")
	}
	if c.size <= 0 {
		return fmt.Errorf("size cannot be zero or negative")
	}
	if c.price < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	return nil
}

func (c *Add) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	if err := c.check(); err != nil {
		return err
	}

	var deadline time.Time
	if len(c.deadline) > 0 {
		if d, err := time.ParseDuration(c.deadline); err == nil {
			deadline = time.Now().Add(d)
		} else {
			v, err := time.Parse(time.RFC3339, c.deadline)
			if err != nil {
				return fmt.Errorf("could not parse deadline %q: %w", c.deadline, err)
			}
			deadline = v
		}
	}

	req := &api.OrderAddRequest{
		Side:     c.side,
		Asset:    c.asset,
		Size:     decimal.NewFromFloat(c.size),
		Price:    decimal.NewFromFloat(c.price),
		Deadline: deadline,
	}
	resp, err := cmdutil.Post[api.OrderAddResponse](ctx, &c.ClientFlags, api.OrderAddPath, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Add) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("add", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.side, "side", "", "must be one of BUY or SELL")
	fset.StringVar(&c.asset, "asset", "", "token contract address for the order")
	fset.Float64Var(&c.size, "size", 0, "asset size for the order")
	fset.Float64Var(&c.price, "price", 0, "limit price for the order; zero stands for market price")
	fset.StringVar(&c.deadline, "deadline", "", "deadline as a duration (ex: 24h) or a RFC3339 timestamp")
	return "add", fset, cli.CmdFunc(c.Run)
}

func (c *Add) Purpose() string {
	return "Creates a new limit order under daemon monitoring"
}

func (c *Add) Description() string {
	return `

Command "add" creates a limit order that the daemon monitors locally. The
order is held outside the trading backend; the daemon watches cached token
prices and instructs the backend to execute a market trade when the limit
price is met.

A BUY order triggers when the token price drops to the limit price or below
and a SELL order triggers when the token price rises to the limit price or
above. A zero limit price executes at the first known market price. Orders
past their deadline expire without execution.

`
}
