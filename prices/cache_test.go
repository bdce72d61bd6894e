// Copyright (c) 2025 BVK Chaitanya

package prices

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
)

func TestCache(t *testing.T) {
	c := NewCache()
	defer c.Close()

	if _, ok := c.Lookup("0xabc"); ok {
		t.Fatal("wanted an unknown price for an empty cache")
	}

	c.Set("0xABC", decimal.NewFromInt(100))

	// Lookups fold case both ways.
	for _, asset := range []string{"0xabc", "0xABC", "0xAbC"} {
		price, ok := c.Lookup(asset)
		if !ok {
			t.Fatalf("wanted a known price for %q", asset)
		}
		if !price.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("wanted price 100 for %q, got %s", asset, price)
		}
	}

	// Last write wins.
	c.Set("0xabc", decimal.NewFromInt(105))
	if price, _ := c.Lookup("0xABC"); !price.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("wanted price 105, got %s", price)
	}

	if _, ok := c.Lookup("0xdef"); ok {
		t.Fatal("wanted an unknown price for a missing asset")
	}
}

func TestCacheSubscribe(t *testing.T) {
	c := NewCache()
	defer c.Close()

	c.Set("0xabc", decimal.NewFromInt(100))

	// A recent subscription starts off with the latest update.
	receiver, err := c.Subscribe(1, true /* recent */)
	if err != nil {
		t.Fatal(err)
	}
	defer receiver.Close()
	updatesCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case update := <-updatesCh:
		if update.Asset != "0xabc" || !update.Price.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("unexpected price update %+v", update)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wanted the most recent price update, got none")
	}

	c.Set("0xDEF", decimal.NewFromInt(7))
	select {
	case update := <-updatesCh:
		// Published updates carry the lowercased asset key.
		if update.Asset != "0xdef" || !update.Price.Equal(decimal.NewFromInt(7)) {
			t.Fatalf("unexpected price update %+v", update)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("wanted a price update, got none")
	}
}
