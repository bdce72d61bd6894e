// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/tradedash/gobs"

const SettingsGetPath = "/settings/get"

type SettingsGetRequest struct {
	// Refresh also sends a get_settings message to the backend so that a
	// fresher copy arrives asynchronously.
	Refresh bool
}

type SettingsGetResponse struct {
	// Settings is nil when no settings snapshot has been received yet.
	Settings *gobs.Settings
}
