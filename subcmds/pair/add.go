// Copyright (c) 2025 BVK Chaitanya

package pair

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Add struct {
	cmdutil.ClientFlags
}

func (c *Add) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (pair address) argument")
	}

	req := &api.PairAddRequest{
		Address: args[0],
	}
	if _, err := cmdutil.Post[api.PairAddResponse](ctx, &c.ClientFlags, api.PairAddPath, req); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

func (c *Add) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("add", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "add", fset, cli.CmdFunc(c.Run)
}

func (c *Add) Purpose() string {
	return "Adds a trading pair to the bot watchlist"
}
