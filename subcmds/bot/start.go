// Copyright (c) 2025 BVK Chaitanya

package bot

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Start struct {
	cmdutil.ClientFlags
}

func (c *Start) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	resp, err := cmdutil.Post[api.BotStartResponse](ctx, &c.ClientFlags, api.BotStartPath, &api.BotStartRequest{})
	if err != nil {
		return err
	}
	fmt.Println(resp.RunState)
	return nil
}

func (c *Start) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("start", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "start", fset, cli.CmdFunc(c.Run)
}

func (c *Start) Purpose() string {
	return "Asks the trading bot to start trading"
}
