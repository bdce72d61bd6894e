// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"encoding/json"
	"os"

	"github.com/bvk/tradedash/backend"
	"github.com/bvk/tradedash/pushover"
	"github.com/bvk/tradedash/telegram"
)

type Secrets struct {
	Backend  *backend.Credentials `json:"backend"`
	Pushover *pushover.Keys       `json:"pushover"`
	Telegram *telegram.Secrets    `json:"telegram"`
}

func SecretsFromFile(fpath string) (*Secrets, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	s := new(Secrets)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (v *Secrets) Check() error {
	if v.Backend != nil {
		if err := v.Backend.Check(); err != nil {
			return err
		}
	}
	if v.Pushover != nil {
		if err := v.Pushover.Check(); err != nil {
			return err
		}
	}
	if v.Telegram != nil {
		if err := v.Telegram.Check(); err != nil {
			return err
		}
	}
	return nil
}
