package dataflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	lpconfig "github.com/longportapp/openapi-go/config"
	"github.com/longportapp/openapi-go/quote"
	"github.com/shopspring/decimal"

	"github.com/dyike/FiiGo/config"
)

const (
	longportSource = "longport"
	// longportMaxCandles is the most candlesticks one request may return.
	longportMaxCandles = 1000
)

// LongportClient serves metadata and daily candlesticks from the Longport
// quote API.
type LongportClient struct {
	quoteCtx *quote.QuoteContext
}

func NewLongportClient(cfg *config.Config) (*LongportClient, error) {
	if !cfg.LongportConfigured() {
		return nil, errors.New("longport API credentials not configured")
	}

	conf, err := lpconfig.New(lpconfig.WithConfigKey(cfg.LongportAppKey, cfg.LongportAppSecret, cfg.LongportAccessToken))
	if err != nil {
		return nil, err
	}

	quoteContext, err := quote.NewFromCfg(conf)
	if err != nil {
		return nil, err
	}

	return &LongportClient{quoteCtx: quoteContext}, nil
}

func (lpc *LongportClient) Name() string { return "longport" }

// GetInstrumentSummary combines static info with the last two daily candles.
func (lpc *LongportClient) GetInstrumentSummary(ctx context.Context, symbol string) (*InstrumentSummary, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	infos, err := lpc.quoteCtx.StaticInfo(ctx, []string{symbol})
	if err != nil {
		return nil, &FetchError{URL: longportSource, Err: fmt.Errorf("static info %s: %w", symbol, err)}
	}

	summary := &InstrumentSummary{Symbol: symbol}
	if len(infos) > 0 && infos[0] != nil {
		summary.LongName = stringPtr(infos[0].NameEn)
	}

	sticks, err := lpc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, 2, quote.AdjustTypeNo)
	if err != nil {
		return nil, &FetchError{URL: longportSource, Err: fmt.Errorf("candlesticks %s: %w", symbol, err)}
	}
	if n := len(sticks); n > 0 && sticks[n-1] != nil {
		last := sticks[n-1]
		summary.CurrentPrice = decimalPtr(decimalValue(last.Close))
		summary.Volume = int64Ptr(last.Volume)
		if n > 1 && sticks[n-2] != nil && summary.CurrentPrice != nil {
			prev := decimalValue(sticks[n-2].Close)
			if !prev.IsZero() {
				change := summary.CurrentPrice.Sub(prev).Div(prev).Mul(hundred)
				summary.ChangePercent = &change
			}
		}
	}

	return summary, nil
}

// GetPriceHistory requests enough daily candles to cover [start, end) and
// keeps those inside it.
func (lpc *LongportClient) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]PriceBar, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	count := int(time.Since(start).Hours()/24) + 1
	count = max(1, min(count, longportMaxCandles))

	sticks, err := lpc.quoteCtx.Candlesticks(ctx, symbol, quote.PeriodDay, int32(count), quote.AdjustTypeNo)
	if err != nil {
		return nil, &FetchError{URL: longportSource, Err: fmt.Errorf("candlesticks %s: %w", symbol, err)}
	}

	bars := make([]PriceBar, 0, len(sticks))
	for _, stick := range sticks {
		if stick == nil {
			continue
		}
		day := dateOf(time.Unix(stick.Timestamp, 0), time.UTC)
		if !inWindow(day, start, end) {
			continue
		}
		bars = append(bars, PriceBar{
			Date:   day,
			Open:   decimalValue(stick.Open),
			High:   decimalValue(stick.High),
			Low:    decimalValue(stick.Low),
			Close:  decimalValue(stick.Close),
			Volume: stick.Volume,
		})
	}

	return normalizeBars(bars), nil
}

func decimalValue(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
