// Copyright (c) 2025 BVK Chaitanya

package backend

import (
	"time"
)

type Options struct {
	// ReconnectInterval holds the delay between a websocket session ending
	// and the next dial attempt. The delay is a constant, not an
	// exponential backoff; the backend is a companion process on the same
	// host and either comes back quickly or not at all.
	ReconnectInterval time.Duration

	// DialTimeout limits the websocket handshake.
	DialTimeout time.Duration

	// HttpClientTimeout limits trade requests.
	HttpClientTimeout time.Duration

	// SendQueueSize bounds the number of outbound messages waiting for the
	// session writer.
	SendQueueSize int
}

func (v *Options) setDefaults() {
	if v.ReconnectInterval == 0 {
		v.ReconnectInterval = 5 * time.Second
	}
	if v.DialTimeout == 0 {
		v.DialTimeout = 10 * time.Second
	}
	if v.HttpClientTimeout == 0 {
		v.HttpClientTimeout = 30 * time.Second
	}
	if v.SendQueueSize == 0 {
		v.SendQueueSize = 16
	}
}
