package faucet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFriendbotFundSendsAddress(t *testing.T) {
	var gotAddr string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAddr = r.URL.Query().Get("addr")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"hash":"abc"}`))
	}))
	defer srv.Close()

	bot := NewFriendbot(srv.URL, 5*time.Second)
	if err := bot.Fund(context.Background(), "GABC"); err != nil {
		t.Fatalf("fund: %v", err)
	}
	if gotAddr != "GABC" {
		t.Fatalf("expected addr GABC, got %q", gotAddr)
	}
}

func TestFriendbotNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`createAccountAlreadyExist`))
	}))
	defer srv.Close()

	err := NewFriendbot(srv.URL, 5*time.Second).Fund(context.Background(), "GABC")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if !strings.Contains(err.Error(), "status 400") || !strings.Contains(err.Error(), "createAccountAlreadyExist") {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestFriendbotRequiresAddress(t *testing.T) {
	if err := NewFriendbot("http://127.0.0.1:1", 0).Fund(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty address")
	}
}
