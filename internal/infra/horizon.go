package infra

import (
	"fmt"
	"net/http"

	"github.com/stellar/go-stellar-sdk/clients/horizonclient"
)

// NewHorizonClient builds a Horizon client for the given root URL. Requests are
// not bounded by a client-side timeout.
func NewHorizonClient(url string) (*horizonclient.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("horizon url is required")
	}
	return &horizonclient.Client{
		HorizonURL: url,
		HTTP:       http.DefaultClient,
	}, nil
}
