// Copyright (c) 2025 BVK Chaitanya

package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/bvkgo/kv/kvmemdb"
	"github.com/go-telegram/bot/models"
)

var testingSecrets *Secrets

func checkSecrets() bool {
	if testingSecrets != nil {
		return true
	}
	data, err := os.ReadFile("telegram-creds.json")
	if err != nil {
		return false
	}
	s := new(Secrets)
	if err := json.Unmarshal(data, s); err != nil {
		return false
	}
	if err := s.Check(); err != nil {
		return false
	}
	testingSecrets = s
	return true
}

func TestSecretsCheck(t *testing.T) {
	if err := (&Secrets{OwnerID: "alice"}).Check(); err == nil {
		t.Fatal("wanted an error for an empty bot token")
	}
	if err := (&Secrets{BotToken: "token"}).Check(); err == nil {
		t.Fatal("wanted an error for an empty owner id")
	}
	s := &Secrets{BotToken: "token", OwnerID: "alice", OtherIDs: []string{"alice"}}
	if err := s.Check(); err == nil {
		t.Fatal("wanted an error for a repeated owner id")
	}
}

func commandUpdate(text string, cmdlen int) *models.Update {
	return &models.Update{
		Message: &models.Message{
			Text: text,
			Entities: []models.MessageEntity{
				{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: cmdlen},
			},
		},
	}
}

func TestGetCommand(t *testing.T) {
	c := &Client{secrets: &Secrets{OwnerID: "alice"}}
	c.commandMap.Store("orders", &Command{
		Purpose: "Prints order records",
		Handler: func(ctx context.Context, args []string) error { return nil },
	})

	cmd, args, handler, err := c.getCommand(commandUpdate("/orders active", len("/orders")))
	if err != nil {
		t.Fatal(err)
	}
	if cmd != "orders" || len(args) != 1 || args[0] != "active" {
		t.Fatalf("wanted orders [active], got %q %v", cmd, args)
	}
	if handler == nil {
		t.Fatal("wanted the registered handler")
	}

	if _, _, _, err := c.getCommand(commandUpdate("/nonesuch", len("/nonesuch"))); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted %v, got %v", os.ErrNotExist, err)
	}
	if _, _, _, err := c.getCommand(&models.Update{Message: &models.Message{Text: "plain text"}}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted %v, got %v", os.ErrInvalid, err)
	}
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	if !checkSecrets() {
		t.Skip("no credentials")
		return
	}

	db := kvmemdb.New()
	c, err := New(ctx, db, testingSecrets)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}
	}()

	t.Logf("Authorized on account %s with owner %s", c.BotUserName(), c.OwnerUserName())

	c.SendMessage(ctx, time.Now(), "hello")
}
