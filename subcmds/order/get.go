// Copyright (c) 2025 BVK Chaitanya

package order

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"strconv"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Get struct {
	cmdutil.ClientFlags
}

func (c *Get) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (order id) argument")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("could not parse order id %q: %w", args[0], err)
	}

	req := &api.OrderGetRequest{
		ID: id,
	}
	resp, err := cmdutil.Post[api.OrderGetResponse](ctx, &c.ClientFlags, api.OrderGetPath, req)
	if err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(resp.Order, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "get", fset, cli.CmdFunc(c.Run)
}

func (c *Get) Purpose() string {
	return "Prints one limit order with all its details"
}
