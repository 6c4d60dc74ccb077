package infra

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewRedisClientPings(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
}

func TestConstructorsRequireURL(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisClient(ctx, ""); err == nil {
		t.Fatal("expected error for empty redis url")
	}
	if _, err := NewPostgresPool(ctx, ""); err == nil {
		t.Fatal("expected error for empty database url")
	}
	if _, err := NewHorizonClient(""); err == nil {
		t.Fatal("expected error for empty horizon url")
	}
}

func TestNewHorizonClientKeepsURL(t *testing.T) {
	hc, err := NewHorizonClient("https://horizon-testnet.stellar.org/")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if hc.HorizonURL != "https://horizon-testnet.stellar.org/" {
		t.Fatalf("unexpected url %q", hc.HorizonURL)
	}
}
