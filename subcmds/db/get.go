// Copyright (c) 2023 BVK Chaitanya

package db

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Get struct {
	cmdutil.DBFlags

	valueType string
}

func (c *Get) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (key) argument")
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	snap, err := db.NewSnapshot(ctx)
	if err != nil {
		return err
	}
	defer snap.Discard(ctx)

	v, err := snap.Get(ctx, args[0])
	if err != nil {
		return err
	}

	if len(c.valueType) != 0 {
		value, err := gobs.NewByTypename(c.valueType)
		if err != nil {
			return fmt.Errorf("invalid value-type %q: %w", c.valueType, err)
		}
		if err := gob.NewDecoder(v).Decode(value); err != nil {
			return fmt.Errorf("could not gob-decode value at key %q: %w", args[0], err)
		}
		jsdata, _ := json.MarshalIndent(value, "", "  ")
		fmt.Printf("%s\n", jsdata)
		return nil
	}

	data, err := io.ReadAll(v)
	if err != nil {
		return err
	}
	fmt.Printf("%x", data)
	return nil
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.valueType, "value-type", "", "gob type name for the value")
	return "get", fset, cli.CmdFunc(c.Run)
}

func (c *Get) Purpose() string {
	return "Prints the value of a key in the database"
}
