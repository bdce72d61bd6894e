// Copyright (c) 2025 BVK Chaitanya

package order

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type List struct {
	cmdutil.ClientFlags

	active bool
}

func (c *List) Run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	req := &api.OrderListRequest{
		ActiveOnly: c.active,
	}
	resp, err := cmdutil.Post[api.OrderListResponse](ctx, &c.ClientFlags, api.OrderListPath, req)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID\tSide\tAsset\tSize\tPrice\tStatus\tDeadline\t\n")
	for _, v := range resp.Orders {
		deadline := ""
		if !v.Deadline.IsZero() {
			deadline = v.Deadline.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n", v.ID, v.Side, v.Asset, v.Size.String(), v.Price.String(), v.Status, deadline)
	}
	tw.Flush()
	return nil
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.BoolVar(&c.active, "active", false, "when true lists only ACTIVE orders")
	return "list", fset, cli.CmdFunc(c.Run)
}

func (c *List) Purpose() string {
	return "Prints limit orders known to the daemon"
}
