// Copyright (c) 2023 BVK Chaitanya

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Status struct {
	cmdutil.ClientFlags
}

func (c *Status) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("status", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "status", fset, cli.CmdFunc(c.run)
}

func (c *Status) Purpose() string {
	return "Prints a summary of the daemon and the trading bot"
}

func (c *Status) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	resp, err := cmdutil.Post[api.StatusResponse](ctx, &c.ClientFlags, api.StatusPath, &api.StatusRequest{})
	if err != nil {
		return err
	}

	fmt.Printf("Connection: %s\n", resp.ConnectionState)
	fmt.Printf("Bot: %s\n", resp.RunState)
	fmt.Printf("Orders: %d active of %d\n", resp.ActiveOrders, resp.TotalOrders)

	if state := resp.State; state != nil {
		fmt.Println()
		fmt.Printf("Wallet: %s (%s)\n", state.Wallet.Address, state.Wallet.Network)
		fmt.Printf("Balance: %s\n", state.Wallet.Balance.StringFixed(4))
		fmt.Printf("Gas Price: %s\n", state.Gas.Current.StringFixed(2))
		fmt.Printf("Trades: %d\n", state.Trading.Total)
		fmt.Printf("Successful: %d\n", state.Trading.Successful)
		fmt.Printf("PnL: %s\n", state.Trading.PnL.StringFixed(4))

		if len(state.Pairs) > 0 {
			fmt.Println()
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', tabwriter.AlignRight)
			fmt.Fprintf(tw, "Name\tAddress\tPrice\tChange24h\tLiquidity\t\n")
			for _, p := range state.Pairs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t%s\t\n", p.Name, p.Address, p.Price.StringFixed(6), p.Change24h.StringFixed(2), p.Liquidity.StringFixed(2))
			}
			tw.Flush()
		}
	}

	if settings := resp.Settings; settings != nil {
		fmt.Println()
		fmt.Printf("Max Slippage: %s%%\n", settings.Trading.MaxSlippage.StringFixed(2))
		fmt.Printf("Gas Limit: %d\n", settings.Trading.GasLimit)
		fmt.Printf("Max Gas Price: %s\n", settings.Trading.MaxGasPrice.StringFixed(2))
	}

	fmt.Println()
	fmt.Printf("Pid: %d\n", resp.Pid)
	fmt.Printf("Uptime: %s\n", resp.Uptime)
	fmt.Printf("CPU: %.02f%%\n", resp.CPUPercent)
	fmt.Printf("Memory: %d MiB\n", resp.MemoryRSS/(1024*1024))
	fmt.Printf("Threads: %d\n", resp.NumThreads)

	if len(resp.RecentLogs) > 0 {
		fmt.Println()
		for _, e := range resp.RecentLogs {
			fmt.Printf("%s %s %s\n", e.ReceivedAt.Format("2006-01-02 15:04:05"), e.Level, e.Message)
		}
	}
	return nil
}
