// Copyright (c) 2023 BVK Chaitanya

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/timerange"
	"github.com/visvasity/cli"
)

type Transactions struct {
	cmdutil.ClientFlags

	today     bool
	yesterday bool
	thisWeek  bool
	thisMonth bool

	beginTime, endTime string
}

func (c *Transactions) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("transactions", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.BoolVar(&c.today, "today", false, "restricts the time period to today")
	fset.BoolVar(&c.yesterday, "yesterday", false, "restricts the time period to yesterday")
	fset.BoolVar(&c.thisWeek, "this-week", false, "restricts the time period to the current week")
	fset.BoolVar(&c.thisMonth, "this-month", false, "restricts the time period to the current month")
	fset.StringVar(&c.beginTime, "begin-time", "", "begin time for the time period")
	fset.StringVar(&c.endTime, "end-time", "", "end time for the time period")
	return "transactions", fset, cli.CmdFunc(c.run)
}

func (c *Transactions) Purpose() string {
	return "Prints recent transactions reported by the backend"
}

func (c *Transactions) period() (*timerange.Range, error) {
	switch {
	case c.today:
		return timerange.Today(time.Local), nil
	case c.yesterday:
		return timerange.Yesterday(time.Local), nil
	case c.thisWeek:
		return timerange.ThisWeek(time.Local), nil
	case c.thisMonth:
		return timerange.ThisMonth(time.Local), nil
	}

	now := time.Now()
	parseTime := func(s string) (time.Time, error) {
		if d, err := time.ParseDuration(s); err == nil {
			return now.Add(d), nil
		}
		if v, err := time.Parse("2006-01-02", s); err == nil {
			return v, nil
		}
		return time.Parse(time.RFC3339, s)
	}

	var period timerange.Range
	if len(c.beginTime) > 0 {
		v, err := parseTime(c.beginTime)
		if err != nil {
			return nil, err
		}
		period.Begin = v
	}
	if len(c.endTime) > 0 {
		v, err := parseTime(c.endTime)
		if err != nil {
			return nil, err
		}
		period.End = v
	}
	return &period, nil
}

func (c *Transactions) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	period, err := c.period()
	if err != nil {
		return err
	}

	req := &api.TransactionListRequest{
		Begin: period.Begin,
		End:   period.End,
	}
	resp, err := cmdutil.Post[api.TransactionListResponse](ctx, &c.ClientFlags, api.TransactionListPath, req)
	if err != nil {
		return err
	}

	if len(resp.Transactions) == 0 {
		fmt.Println("No transactions in the selected time period.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "Received\tType\tToken\tAmount\tPrice\tGasUsed\tStatus\tTxHash\t\n")
	for _, r := range resp.Transactions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", r.ReceivedAt.Format("2006-01-02 15:04:05"), r.Type, r.TokenAddress, r.Amount.String(), r.Price.String(), r.GasUsed.String(), r.Status, r.TxHash)
	}
	tw.Flush()
	return nil
}
