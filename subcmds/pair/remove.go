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

type Remove struct {
	cmdutil.ClientFlags
}

func (c *Remove) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (pair address) argument")
	}

	req := &api.PairRemoveRequest{
		Address: args[0],
	}
	if _, err := cmdutil.Post[api.PairRemoveResponse](ctx, &c.ClientFlags, api.PairRemovePath, req); err != nil {
		return err
	}
	fmt.Println("OK")
	return nil
}

func (c *Remove) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("remove", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "remove", fset, cli.CmdFunc(c.Run)
}

func (c *Remove) Purpose() string {
	return "Removes a trading pair from the bot watchlist"
}
