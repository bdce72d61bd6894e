// Copyright (c) 2023 BVK Chaitanya

package db

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Delete struct {
	cmdutil.DBFlags
}

func (c *Delete) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (key) argument")
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	tx, err := db.NewTransaction(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.Delete(ctx, args[0]); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	return nil
}

func (c *Delete) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("delete", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return "delete", fset, cli.CmdFunc(c.Run)
}

func (c *Delete) Purpose() string {
	return "Deletes a key in the database"
}
