// Copyright (c) 2025 BVK Chaitanya

package api

import "fmt"

func (r *OrderAddRequest) Check() error {
	if r.Side != "BUY" && r.Side != "SELL" {
		return fmt.Errorf("order side %q is invalid (want BUY or SELL)", r.Side)
	}
	if len(r.Asset) == 0 {
		return fmt.Errorf("order asset address cannot be empty")
	}
	if !r.Size.IsPositive() {
		return fmt.Errorf("order size must be positive")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("order price cannot be negative")
	}
	return nil
}

func (r *OrderCancelRequest) Check() error {
	if r.ID == 0 {
		return fmt.Errorf("order id cannot be zero")
	}
	return nil
}

func (r *OrderGetRequest) Check() error {
	if r.ID == 0 {
		return fmt.Errorf("order id cannot be zero")
	}
	return nil
}

func (r *PairAddRequest) Check() error {
	if len(r.Address) == 0 {
		return fmt.Errorf("pair address cannot be empty")
	}
	return nil
}

func (r *PairRemoveRequest) Check() error {
	if len(r.Address) == 0 {
		return fmt.Errorf("pair address cannot be empty")
	}
	return nil
}

func (r *SettingsUpdateRequest) Check() error {
	if r.Settings == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	if r.Settings.Trading.MaxSlippage.IsNegative() {
		return fmt.Errorf("max slippage cannot be negative")
	}
	if r.Settings.Trading.GasLimit <= 0 {
		return fmt.Errorf("gas limit must be positive")
	}
	if r.Settings.Trading.MaxGasPrice.IsNegative() {
		return fmt.Errorf("max gas price cannot be negative")
	}
	return nil
}

func (r *TradeRequest) Check() error {
	if len(r.Address) == 0 {
		return fmt.Errorf("trade address cannot be empty")
	}
	return nil
}
