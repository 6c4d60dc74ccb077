package wallet

import "time"

// Balances maps an asset type (native, credit_alphanum4, ...) to its amount as
// rendered by the network. Lines sharing an asset type collapse to the last one.
type Balances map[string]string

// PaymentRequest carries the inputs of a native payment. Only presence is
// checked locally; the SDK and the network validate everything else.
type PaymentRequest struct {
	SourceSecret string
	Destination  string
	Amount       string
	Memo         string
}

// PaymentReceipt describes an accepted payment and the balances after it.
type PaymentReceipt struct {
	Hash               string
	Ledger             int32
	SourceBalance      Balances
	DestinationBalance Balances
	SubmittedAt        time.Time
}

// NewAccount is a freshly generated and faucet-funded key pair.
type NewAccount struct {
	PublicKey string
	SecretKey string
	Balances  Balances
}
