// Package provider contains the data-provider clients that execute a resolved
// historical-data request. Providers are external collaborators: they receive
// the fully resolved request envelope and return raw UTC bars; they perform no
// retries and impose no timeout of their own beyond the caller's context.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/polygon-io/client-go/rest/models"

	"github.com/rxtech-lab/histdata/internal/types"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// OnProgress reports fetch progress to the caller.
type OnProgress = func(current float64, total float64, message string)

// Request is the complete, unambiguous request envelope handed to a provider.
// EndDateTime and DurationStr are the wire-grammar fields; WindowStart and
// WindowEnd are the same span as concrete instants, derived by the caller,
// for providers whose APIs take explicit from/to ranges.
type Request struct {
	Symbol         string
	SecurityType   types.SecurityType
	EndDateTime    string // "YYYYMMDD HH:MM:SS"
	DurationStr    string // "<integer> <unit>", unit in S D W M Y
	BarSizeSetting string // one of the 21 catalog labels
	WhatToShow     string
	UseRTH         bool

	WindowStart time.Time
	WindowEnd   time.Time
	Multiplier  int
	Timespan    models.Timespan
}

// Provider fetches historical bars for a resolved request. Implementations
// return bars in chronological order with UTC timestamps.
type Provider interface {
	// Name identifies the provider in logs and output.
	Name() string
	// Fetch executes the request. The context cancels the fetch; a failure is
	// surfaced verbatim and never retried here.
	Fetch(ctx context.Context, req Request, onProgress OnProgress) ([]types.Bar, error)
}

// NewProvider creates a provider by type. config carries the provider
// credential where one is needed (the Polygon API key).
func NewProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, fmt.Errorf("polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	case ProviderBinance:
		return NewBinanceClient()
	default:
		return nil, fmt.Errorf("unsupported market data provider: %s", providerType)
	}
}
