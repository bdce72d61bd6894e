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

type Pause struct {
	cmdutil.ClientFlags
}

func (c *Pause) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	resp, err := cmdutil.Post[api.BotPauseResponse](ctx, &c.ClientFlags, api.BotPausePath, &api.BotPauseRequest{})
	if err != nil {
		return err
	}
	fmt.Println(resp.RunState)
	return nil
}

func (c *Pause) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("pause", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "pause", fset, cli.CmdFunc(c.Run)
}

func (c *Pause) Purpose() string {
	return "Asks the trading bot to pause trading"
}
