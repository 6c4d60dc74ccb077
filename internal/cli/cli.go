package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/congo-pay/stellar_gateway/internal/wallet"
)

// Operations is the subset of the wallet service the command line drives.
type Operations interface {
	Check(ctx context.Context, accountID string) wallet.Result
	Send(ctx context.Context, req wallet.PaymentRequest) wallet.Result
	Create(ctx context.Context) wallet.Result
}

type options struct {
	action      string
	source      string
	destination string
	amount      string
	memo        string
}

// Run parses args, performs the selected action and writes exactly one JSON
// object to stdout. Only flag parsing and output failures are returned as
// errors; operation failures are reported in the JSON itself.
func Run(ctx context.Context, args []string, ops Operations, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("stellarctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.action, "action", "", "Operation to perform (check|send|create)")
	fs.StringVar(&opts.source, "source", "", "Source account secret seed (send)")
	fs.StringVar(&opts.destination, "destination", "", "Destination public key (send) or account to inspect (check)")
	fs.StringVar(&opts.amount, "amount", "", "Amount of XLM to send")
	fs.StringVar(&opts.memo, "memo", "", "Optional text memo (send)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return json.NewEncoder(stdout).Encode(dispatch(ctx, ops, opts))
}

func dispatch(ctx context.Context, ops Operations, opts options) wallet.Result {
	switch opts.action {
	case "check":
		account := opts.destination
		if account == "" {
			account = opts.source
		}
		if missing := wallet.Missing(wallet.Param{Name: "destination", Value: account}); len(missing) > 0 {
			return wallet.MissingResult(missing)
		}
		return ops.Check(ctx, account)
	case "send":
		missing := wallet.Missing(
			wallet.Param{Name: "source", Value: opts.source},
			wallet.Param{Name: "destination", Value: opts.destination},
			wallet.Param{Name: "amount", Value: opts.amount},
		)
		if len(missing) > 0 {
			return wallet.MissingResult(missing)
		}
		return ops.Send(ctx, wallet.PaymentRequest{
			SourceSecret: opts.source,
			Destination:  opts.destination,
			Amount:       opts.amount,
			Memo:         opts.memo,
		})
	case "create":
		return ops.Create(ctx)
	case "":
		return wallet.MissingResult([]string{"action"})
	default:
		return wallet.Result{
			Status:  wallet.StatusError,
			Message: fmt.Sprintf("unknown action %q, expected one of check, send, create", opts.action),
		}
	}
}
