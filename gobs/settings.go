// Copyright (c) 2025 BVK Chaitanya

package gobs

import "github.com/shopspring/decimal"

// Settings mirrors the backend's settings object. The json tags follow the
// backend's wire format; gob encoding for the db ignores them.
type Settings struct {
	Trading    TradingSettings    `json:"trading"`
	Monitoring MonitoringSettings `json:"monitoring"`
	Alerts     AlertSettings      `json:"alerts"`
}

type TradingSettings struct {
	// MaxSlippage is a percentage.
	MaxSlippage decimal.Decimal `json:"maxSlippage"`

	GasLimit int64 `json:"gasLimit"`

	// MaxGasPrice is in gwei.
	MaxGasPrice decimal.Decimal `json:"maxGasPrice"`
}

type MonitoringSettings struct {
	// Intervals are in seconds.
	PriceUpdateInterval  int64 `json:"priceUpdateInterval"`
	EventPollingInterval int64 `json:"eventPollingInterval"`
}

type AlertSettings struct {
	EnablePriceAlerts    bool `json:"enablePriceAlerts"`
	EnablePositionAlerts bool `json:"enablePositionAlerts"`
	EnableGasAlerts      bool `json:"enableGasAlerts"`
}
