// Copyright (c) 2025 BVK Chaitanya

package setup

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bvk/tradedash/backend"
	"github.com/bvk/tradedash/server"
	"github.com/visvasity/cli"
)

type Backend struct {
	dataDir string

	key     string
	pem     string
	pemFile string
}

func (c *Backend) Purpose() string {
	return "Setup configures trading backend API access parameters"
}

func (c *Backend) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("backend", flag.ContinueOnError)
	fset.StringVar(&c.dataDir, "data-dir", "", "path to the data directory")
	fset.StringVar(&c.key, "key", "", "backend API key name as a string")
	fset.StringVar(&c.pem, "pem", "", "backend API private key as a string")
	fset.StringVar(&c.pemFile, "pem-file", "", "path to a file with the backend API private key")
	return "backend", fset, cli.CmdFunc(c.run)
}

func (c *Backend) Description() string {
	return `

Command "backend" helps users configure the trading backend API key.

The API key is required to authenticate the daemon's websocket and trade
requests with the trading backend. The private key is validated locally
before the secrets file is updated. Keys can be configured as follows:

  $ tradedash setup backend --key=dashboard-key-1 --pem-file=backend.pem

`
}

func (c *Backend) run(ctx context.Context, args []string) error {
	if len(c.dataDir) == 0 {
		c.dataDir = filepath.Join(os.Getenv("HOME"), ".tradedash")
	}
	if _, err := os.Stat(c.dataDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not stat data directory %q: %w", c.dataDir, err)
		}
		if err := os.MkdirAll(c.dataDir, 0700); err != nil {
			return fmt.Errorf("could not create data directory %q: %w", c.dataDir, err)
		}
	}
	dataDir, err := filepath.Abs(c.dataDir)
	if err != nil {
		return fmt.Errorf("could not determine data-dir %q absolute path: %w", c.dataDir, err)
	}

	if len(c.key) == 0 {
		return fmt.Errorf("--key flag is required")
	}
	if len(c.pem) == 0 && len(c.pemFile) == 0 {
		return fmt.Errorf("one of --pem or --pem-file flags is required")
	}
	if len(c.pem) != 0 && len(c.pemFile) != 0 {
		return fmt.Errorf("--pem and --pem-file flags cannot be combined")
	}

	if len(c.pemFile) != 0 {
		data, err := os.ReadFile(c.pemFile)
		if err != nil {
			return fmt.Errorf("could not read private key file %q: %w", c.pemFile, err)
		}
		c.pem = string(data)
	}

	secretsPath := filepath.Join(dataDir, "secrets.json")
	secrets, err := server.SecretsFromFile(secretsPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if secrets == nil {
		secrets = &server.Secrets{}
	}

	// Replace escaped newline characters with newlines.
	c.pem = strings.ReplaceAll(c.pem, `\\n`, "\n")
	c.pem = strings.ReplaceAll(c.pem, `\n`, "\n")
	secrets.Backend = &backend.Credentials{
		KeyName:       c.key,
		PrivateKeyPEM: c.pem,
	}
	if err := secrets.Check(); err != nil {
		return err
	}

	js, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(secretsPath, js, os.FileMode(0600)); err != nil {
		return err
	}
	return nil
}
