package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/dyike/FiiGo/internal/logger"
)

const yahooSource = "https://finance.yahoo.com"

// YahooFinanceClient handles Yahoo Finance data operations through finance-go.
type YahooFinanceClient struct{}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient() *YahooFinanceClient {
	return &YahooFinanceClient{}
}

func (yf *YahooFinanceClient) Name() string { return "yahoo" }

// GetInstrumentSummary reads the equity quote, falling back to the plain quote
// when Yahoo does not classify the symbol as an equity.
func (yf *YahooFinanceClient) GetInstrumentSummary(ctx context.Context, symbol string) (*InstrumentSummary, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	eq, err := equity.Get(symbol)
	if err == nil && eq != nil {
		summary := summaryFromQuote(symbol, &eq.Quote)
		if name := stringPtr(eq.LongName); name != nil {
			summary.LongName = name
		}
		summary.MarketCap = int64Ptr(eq.MarketCap)
		return summary, nil
	}
	if err != nil {
		logger.Log.WithField("symbol", symbol).Debugf("equity quote unavailable, trying plain quote: %v", err)
	}

	q, err := quote.Get(symbol)
	if err != nil {
		return nil, &FetchError{URL: yahooSource, Err: fmt.Errorf("quote %s: %w", symbol, err)}
	}
	if q == nil {
		return &InstrumentSummary{Symbol: symbol}, nil
	}
	return summaryFromQuote(symbol, q), nil
}

func summaryFromQuote(symbol string, q *finance.Quote) *InstrumentSummary {
	return &InstrumentSummary{
		Symbol:        symbol,
		LongName:      stringPtr(q.ShortName),
		CurrentPrice:  decimalPtr(decimal.NewFromFloat(q.RegularMarketPrice)),
		ChangePercent: decimalPtr(decimal.NewFromFloat(q.RegularMarketChangePercent)),
		Volume:        int64Ptr(int64(q.RegularMarketVolume)),
	}
}

// GetPriceHistory gets daily bars for symbol in [start, end)
func (yf *YahooFinanceClient) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]PriceBar, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	raw := make([]*finance.ChartBar, 0, 256)
	for iter.Next() {
		raw = append(raw, iter.Bar())
	}

	if err := iter.Err(); err != nil {
		return nil, &FetchError{URL: yahooSource, Err: fmt.Errorf("history %s: %w", symbol, err)}
	}

	loc := time.UTC
	if meta, ok := iter.Iter.Meta().(finance.ChartMeta); ok {
		loc = exchangeLocation(meta.ExchangeTimezoneName)
	}

	return chartBars(raw, loc, start, end), nil
}

// chartBars dates each bar in the exchange time zone and keeps those in [start, end).
func chartBars(raw []*finance.ChartBar, loc *time.Location, start, end time.Time) []PriceBar {
	bars := make([]PriceBar, 0, len(raw))
	for _, bar := range raw {
		if bar == nil {
			continue
		}
		day := dateOf(time.Unix(int64(bar.Timestamp), 0), loc)
		if !inWindow(day, start, end) {
			continue
		}

		bars = append(bars, PriceBar{
			Date:   day,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	return normalizeBars(bars)
}
