// Copyright (c) 2025 BVK Chaitanya

package settings

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"
)

type Update struct {
	cmdutil.ClientFlags

	fromFile string
}

func (c *Update) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("update", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.fromFile, "from-file", "", "path to a file with the complete settings in JSON format")
	return "update", fset, cli.CmdFunc(c.run)
}

func (c *Update) Purpose() string {
	return "Updates the trading bot settings"
}

func (c *Update) Description() string {
	return `

Command "update" sends new settings to the trading backend. Individual
settings are given as key=value arguments over the current snapshot, for
example:

    tradedash settings update maxSlippage=2.5 enableGasAlerts=true

Valid keys are maxSlippage, gasLimit, maxGasPrice, priceUpdateInterval,
eventPollingInterval, enablePriceAlerts, enablePositionAlerts and
enableGasAlerts. Alternatively, the -from-file option replaces the whole
settings object with the JSON content of a file.

`
}

func (c *Update) run(ctx context.Context, args []string) error {
	if len(c.fromFile) != 0 {
		if len(args) != 0 {
			return fmt.Errorf("key=value arguments cannot be combined with -from-file")
		}
		data, err := os.ReadFile(c.fromFile)
		if err != nil {
			return fmt.Errorf("could not read settings file %q: %w", c.fromFile, err)
		}
		settings := new(gobs.Settings)
		if err := json.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("could not unmarshal settings file %q: %w", c.fromFile, err)
		}
		return c.update(ctx, settings)
	}

	if len(args) == 0 {
		return fmt.Errorf("this command takes one or more key=value arguments")
	}

	resp, err := cmdutil.Post[api.SettingsGetResponse](ctx, &c.ClientFlags, api.SettingsGetPath, &api.SettingsGetRequest{})
	if err != nil {
		return err
	}
	if resp.Settings == nil {
		return fmt.Errorf("no settings snapshot is available yet; retry with -from-file")
	}
	settings := resp.Settings

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" || value == "" {
			return fmt.Errorf("argument %q must be in key=value form", arg)
		}
		if err := applyValue(settings, key, value); err != nil {
			return err
		}
	}
	return c.update(ctx, settings)
}

func (c *Update) update(ctx context.Context, settings *gobs.Settings) error {
	req := &api.SettingsUpdateRequest{
		Settings: settings,
	}
	if _, err := cmdutil.Post[api.SettingsUpdateResponse](ctx, &c.ClientFlags, api.SettingsUpdatePath, req); err != nil {
		return err
	}
	jsdata, _ := json.MarshalIndent(settings, "", "  ")
	fmt.Printf("%s\n", jsdata)
	return nil
}

func applyValue(settings *gobs.Settings, key, value string) error {
	switch key {
	case "maxSlippage":
		v, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("could not parse %q value %q: %w", key, value, err)
		}
		settings.Trading.MaxSlippage = v
	case "gasLimit":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("could not parse %q value %q: %w", key, value, err)
		}
		settings.Trading.GasLimit = v
	case "maxGasPrice":
		v, err := decimal.NewFromString(value)
		if err != nil {
			return fmt.Errorf("could not parse %q value %q: %w", key, value, err)
		}
		settings.Trading.MaxGasPrice = v
	case "priceUpdateInterval":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("could not parse %q value %q: %w", key, value, err)
		}
		settings.Monitoring.PriceUpdateInterval = v
	case "eventPollingInterval":
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("could not parse %q value %q: %w", key, value, err)
		}
		settings.Monitoring.EventPollingInterval = v
	case "enablePriceAlerts":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("could not parse %q value %q: %w", key, value, err)
		}
		settings.Alerts.EnablePriceAlerts = v
	case "enablePositionAlerts":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("could not parse %q value %q: %w", key, value, err)
		}
		settings.Alerts.EnablePositionAlerts = v
	case "enableGasAlerts":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("could not parse %q value %q: %w", key, value, err)
		}
		settings.Alerts.EnableGasAlerts = v
	default:
		return fmt.Errorf("unrecognized settings key %q", key)
	}
	return nil
}
