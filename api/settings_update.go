// Copyright (c) 2025 BVK Chaitanya

package api

import "github.com/bvk/tradedash/gobs"

const SettingsUpdatePath = "/settings/update"

type SettingsUpdateRequest struct {
	Settings *gobs.Settings
}

type SettingsUpdateResponse struct {
}
