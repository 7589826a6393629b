package dataflows

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dyike/FiiGo/config"
)

// PriceProvider is a source of instrument metadata and daily price history.
type PriceProvider interface {
	Name() string
	// GetInstrumentSummary returns a snapshot whose missing fields are nil.
	GetInstrumentSummary(ctx context.Context, symbol string) (*InstrumentSummary, error)
	// GetPriceHistory returns the daily bars in [start, end), ascending. No bars
	// in range is an empty slice and a nil error.
	GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]PriceBar, error)
}

// NewPriceProvider builds the provider selected by cfg.PriceProvider.
func NewPriceProvider(cfg *config.Config) (PriceProvider, error) {
	switch cfg.PriceProvider {
	case "", config.ProviderYahoo:
		return NewYahooFinanceClient(), nil
	case config.ProviderYahooHTTP:
		return NewYahooChartClient(cfg), nil
	case config.ProviderLongport:
		return NewLongportClient(cfg)
	default:
		return nil, fmt.Errorf("unknown price provider %q", cfg.PriceProvider)
	}
}

// normalizeBars drops bars without a close, orders them by date and keeps a
// single bar per day (the last one seen).
func normalizeBars(bars []PriceBar) []PriceBar {
	out := make([]PriceBar, 0, len(bars))
	for _, bar := range bars {
		if bar.Close.IsZero() {
			continue
		}
		out = append(out, bar)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	deduped := out[:0]
	for _, bar := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(bar.Date) {
			deduped[n-1] = bar
			continue
		}
		deduped = append(deduped, bar)
	}
	return deduped
}

// inWindow reports whether day falls in [start, end).
func inWindow(day, start, end time.Time) bool {
	return !day.Before(start) && day.Before(end)
}
