package main

import (
	"context"
	"fmt"
	"os"

	"github.com/congo-pay/stellar_gateway/internal/cli"
	"github.com/congo-pay/stellar_gateway/internal/config"
	"github.com/congo-pay/stellar_gateway/internal/faucet"
	"github.com/congo-pay/stellar_gateway/internal/infra"
	"github.com/congo-pay/stellar_gateway/internal/ledger"
	"github.com/congo-pay/stellar_gateway/internal/logging"
	"github.com/congo-pay/stellar_gateway/internal/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// stdout is reserved for the single JSON result.
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger := logging.NewWithWriter(level, os.Stderr)

	hc, err := infra.NewHorizonClient(cfg.HorizonURL)
	if err != nil {
		logger.Error("build horizon client", "error", err)
		os.Exit(1)
	}

	svc := wallet.NewService(
		ledger.NewHorizon(hc),
		faucet.NewFriendbot(cfg.FriendbotURL, 0),
		nil,
		nil,
		cfg.NetworkPassphrase,
		logger,
	)

	if err := cli.Run(context.Background(), os.Args[1:], svc, os.Stdout, os.Stderr); err != nil {
		os.Exit(2)
	}
}
