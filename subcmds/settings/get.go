// Copyright (c) 2025 BVK Chaitanya

package settings

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Get struct {
	cmdutil.ClientFlags

	refresh bool
}

func (c *Get) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	req := &api.SettingsGetRequest{
		Refresh: c.refresh,
	}
	resp, err := cmdutil.Post[api.SettingsGetResponse](ctx, &c.ClientFlags, api.SettingsGetPath, req)
	if err != nil {
		return err
	}
	if resp.Settings == nil {
		return fmt.Errorf("no settings snapshot is available yet")
	}
	jsdata, _ := json.MarshalIndent(resp.Settings, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.BoolVar(&c.refresh, "refresh", false, "when true also asks the backend for a fresh copy")
	return "get", fset, cli.CmdFunc(c.Run)
}

func (c *Get) Purpose() string {
	return "Prints the trading bot settings"
}

func (c *Get) Description() string {
	return `

Command "get" prints the last settings snapshot received from the trading
backend. With the -refresh option the daemon also sends a get_settings
message to the backend, so a fresher snapshot arrives asynchronously and can
be read with a repeated "get".

`
}
