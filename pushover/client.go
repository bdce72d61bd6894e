// Copyright (c) 2023 BVK Chaitanya

// Package pushover delivers dashboard alert notifications through the
// Pushover message service.
package pushover

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const messagesURL = "https://api.pushover.net/1/messages.json"

type Client struct {
	apiURL     string
	token      string
	user       string
	httpClient *http.Client
}

func New(keys *Keys) (*Client, error) {
	if err := keys.Check(); err != nil {
		return nil, err
	}
	c := &Client{
		apiURL:     messagesURL,
		token:      keys.ApplicationKey,
		user:       keys.UserKey,
		httpClient: &http.Client{},
	}
	return c, nil
}

// SendMessage posts one notification. The at timestamp is shown by the
// Pushover apps as the message time.
func (c *Client) SendMessage(ctx context.Context, at time.Time, msg string) error {
	type Message struct {
		Token     string `json:"token"`
		User      string `json:"user"`
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	}
	m := &Message{
		Token:     c.token,
		User:      c.user,
		Timestamp: at.Unix(),
		Message:   msg,
	}
	var msgbuf bytes.Buffer
	if err := json.NewEncoder(&msgbuf).Encode(m); err != nil {
		return fmt.Errorf("could not json-encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &msgbuf)
	if err != nil {
		return fmt.Errorf("could not create post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not perform post request: %w", err)
	}
	defer resp.Body.Close()
	type Response struct {
		Status  int      `json:"status"`
		Request string   `json:"request"`
		Errors  []string `json:"errors"`
	}
	r := new(Response)
	if err := json.NewDecoder(resp.Body).Decode(r); err != nil {
		return fmt.Errorf("could not json-decode response for http-status %d: %w", resp.StatusCode, err)
	}
	if r.Status != 1 {
		if len(r.Errors) != 0 {
			return fmt.Errorf("send failed with http-status %d and error: %w", resp.StatusCode, errors.New(r.Errors[0]))
		}
		return fmt.Errorf("send failed with http-status %d and zero response-status code (%#v)", resp.StatusCode, *r)
	}
	return nil
}
