// Copyright (c) 2023 BVK Chaitanya

package main

import (
	"context"
	"log"
	"os"

	"github.com/bvk/tradedash/envfile"
	"github.com/bvk/tradedash/subcmds"
	"github.com/bvk/tradedash/subcmds/bot"
	"github.com/bvk/tradedash/subcmds/db"
	"github.com/bvk/tradedash/subcmds/order"
	"github.com/bvk/tradedash/subcmds/pair"
	"github.com/bvk/tradedash/subcmds/settings"
	"github.com/bvk/tradedash/subcmds/setup"
	"github.com/visvasity/cli"
)

func main() {
	orderCmds := []cli.Command{
		new(order.Add),
		new(order.List),
		new(order.Get),
		new(order.Cancel),
	}

	botCmds := []cli.Command{
		new(bot.Start),
		new(bot.Stop),
		new(bot.Pause),
	}

	pairCmds := []cli.Command{
		new(pair.Add),
		new(pair.Remove),
	}

	settingsCmds := []cli.Command{
		new(settings.Get),
		new(settings.Update),
	}

	dbCmds := []cli.Command{
		new(db.Get),
		new(db.Set),
		new(db.Delete),
		new(db.List),
		new(db.Backup),
		new(db.Restore),
	}

	setupCmds := []cli.Command{
		new(setup.Backend),
		new(setup.Telegram),
		new(setup.PushOver),
	}

	cmds := []cli.Command{
		new(subcmds.Run),
		new(subcmds.Status),
		new(subcmds.Trade),
		new(subcmds.Transactions),
		new(subcmds.IDGen),
		cli.NewGroup("order", "Manage limit orders under daemon monitoring", orderCmds...),
		cli.NewGroup("bot", "Control the trading bot run-state", botCmds...),
		cli.NewGroup("pair", "Manage the trading bot watchlist", pairCmds...),
		cli.NewGroup("settings", "View/update the trading bot settings", settingsCmds...),
		cli.NewGroup("db", "View/update database directly", dbCmds...),
		cli.NewGroup("setup", "Configure API keys and messaging services", setupCmds...),
	}

	if err := envfile.UpdateEnv(".tradedash.env", envfile.SearchCurrentDir(true), envfile.VariableNamePrefix("TRADEDASH_")); err != nil {
		log.Fatal(err)
	}
	if err := cli.Run(context.Background(), cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
