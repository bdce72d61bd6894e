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

type Stop struct {
	cmdutil.ClientFlags
}

func (c *Stop) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	resp, err := cmdutil.Post[api.BotStopResponse](ctx, &c.ClientFlags, api.BotStopPath, &api.BotStopRequest{})
	if err != nil {
		return err
	}
	fmt.Println(resp.RunState)
	return nil
}

func (c *Stop) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("stop", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "stop", fset, cli.CmdFunc(c.Run)
}

func (c *Stop) Purpose() string {
	return "Asks the trading bot to stop trading"
}
