// Copyright (c) 2025 BVK Chaitanya

package api

const BotStartPath = "/bot/start"

type BotStartRequest struct {
}

type BotStartResponse struct {
	RunState string
}
