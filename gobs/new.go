// Copyright (c) 2025 BVK Chaitanya

package gobs

import (
	"fmt"
)

func NewByTypename(typename string) (any, error) {
	var v any
	switch typename {
	case "LimitOrderState":
		v = new(LimitOrderState)
	case "Settings":
		v = new(Settings)
	case "TelegramState":
		v = new(TelegramState)
	case "KeyValue":
		v = new(KeyValue)
	default:
		return nil, fmt.Errorf("unsupported type name %q", typename)
	}
	return v, nil
}
