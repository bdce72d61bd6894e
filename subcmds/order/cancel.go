// Copyright (c) 2025 BVK Chaitanya

package order

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Cancel struct {
	cmdutil.ClientFlags
}

func (c *Cancel) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (order id) argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("could not parse order id %q: %w", args[0], err)
	}

	req := &api.OrderCancelRequest{
		ID: id,
	}
	resp, err := cmdutil.Post[api.OrderCancelResponse](ctx, &c.ClientFlags, api.OrderCancelPath, req)
	if err != nil {
		return err
	}
	fmt.Println(resp.FinalStatus)
	return nil
}

func (c *Cancel) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("cancel", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "cancel", fset, cli.CmdFunc(c.Run)
}

func (c *Cancel) Purpose() string {
	return "Cancels an active limit order"
}

func (c *Cancel) Description() string {
	return `

Command "cancel" stops monitoring for an active limit order. Orders that have
already reached a final status are left unchanged and their final status is
printed, so canceling a filled or expired order is not an error.

`
}
