// Copyright (c) 2025 BVK Chaitanya

package api

const BotPausePath = "/bot/pause"

type BotPauseRequest struct {
}

type BotPauseResponse struct {
	RunState string
}
