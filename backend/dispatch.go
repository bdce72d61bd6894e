// Copyright (c) 2025 BVK Chaitanya

package backend

import (
	"github.com/bvk/tradedash/gobs"
)

// Operator commands, each mapping to one outbound protocol message. They
// enqueue and return; delivery is not acknowledged by the backend. A
// syscall.ENOTCONN error means the message was dropped because the session
// is disconnected.

// StartBot asks the backend to start the bot session.
func (c *Client) StartBot() error {
	return c.send(&ActionMessage{Action: "start"})
}

// StopBot asks the backend to stop the bot session.
func (c *Client) StopBot() error {
	return c.send(&ActionMessage{Action: "stop"})
}

// PauseBot asks the backend to pause the bot session.
func (c *Client) PauseBot() error {
	return c.send(&ActionMessage{Action: "pause"})
}

// GetSettings asks the backend to send a fresh settings frame.
func (c *Client) GetSettings() error {
	return c.send(&ActionMessage{Action: "get_settings"})
}

// UpdateSettings sends a new settings object to the backend.
func (c *Client) UpdateSettings(settings *gobs.Settings) error {
	return c.send(&ActionMessage{Action: "update_settings", Settings: settings})
}

// AddPair asks the backend to add a token pair to its watch list.
func (c *Client) AddPair(address string) error {
	return c.send(&ActionMessage{Action: "add_pair", Address: address})
}

// RemovePair asks the backend to remove a token pair from its watch list.
func (c *Client) RemovePair(address string) error {
	return c.send(&ActionMessage{Action: "remove_pair", Address: address})
}

// Trade asks the backend to trade the given token immediately with its own
// strategy parameters.
func (c *Client) Trade(address string) error {
	return c.send(&ActionMessage{Action: "trade", Address: address})
}
