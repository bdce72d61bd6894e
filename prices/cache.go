// Copyright (c) 2025 BVK Chaitanya

package prices

import (
	"strings"

	"github.com/bvk/tradedash/syncmap"
	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
)

// Update carries a single price observation for a token.
type Update struct {
	Asset string

	Price decimal.Decimal
}

// Cache holds the latest known price for every token address reported by the
// backend. Values are written by the backend message handler alone and read
// by order monitors and the status API. A missing entry means the price is
// unknown; readers must treat unknown prices as "do nothing".
//
// Token addresses are case-insensitive. Keys are stored in lowercase form and
// lookups fold their input, so callers can pass addresses as-is.
type Cache struct {
	priceMap syncmap.Map[string, decimal.Decimal]

	updatesTopic *topic.Topic[*Update]
}

func NewCache() *Cache {
	return &Cache{
		updatesTopic: topic.New[*Update](),
	}
}

func (c *Cache) Close() {
	c.updatesTopic.Close()
}

// Set records the latest price for an asset and publishes the update to
// subscribers. Last write wins; no history is retained.
func (c *Cache) Set(asset string, price decimal.Decimal) {
	key := strings.ToLower(asset)
	c.priceMap.Store(key, price)
	c.updatesTopic.Send(&Update{Asset: key, Price: price})
}

// Lookup returns the latest known price for an asset.
func (c *Cache) Lookup(asset string) (decimal.Decimal, bool) {
	return c.priceMap.Load(strings.ToLower(asset))
}

// Subscribe returns a receiver for price updates. When recent is true the
// receiver starts off with the most recently published update if one exists.
func (c *Cache) Subscribe(limit int, recent bool) (*topic.Receiver[*Update], error) {
	return topic.Subscribe(c.updatesTopic, limit, recent)
}
