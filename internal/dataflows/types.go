package dataflows

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewsItem is one headline card scraped from the news listing.
type NewsItem struct {
	Title          string `json:"titulo"`
	Link           string `json:"link"`
	PublishedLabel string `json:"data"`
	Summary        string `json:"resumo"`
}

// PriceBar is one daily OHLCV bar. Date is the trading day at UTC midnight.
type PriceBar struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// InstrumentSummary is a descriptive snapshot of a ticker. A nil field means
// the provider did not supply it.
type InstrumentSummary struct {
	Symbol        string           `json:"symbol"`
	LongName      *string          `json:"long_name,omitempty"`
	Sector        *string          `json:"sector,omitempty"`
	Industry      *string          `json:"industry,omitempty"`
	CurrentPrice  *decimal.Decimal `json:"current_price,omitempty"`
	ChangePercent *decimal.Decimal `json:"change_percent,omitempty"`
	Volume        *int64           `json:"volume,omitempty"`
	MarketCap     *int64           `json:"market_cap,omitempty"`
}

// DayClose is the (date, close, volume) triple reported for the last sessions.
type DayClose struct {
	Date   time.Time
	Close  decimal.Decimal
	Volume int64
}

// Stats summarizes a price history.
type Stats struct {
	Count              int
	MaxHigh            decimal.Decimal
	MinLow             decimal.Decimal
	MeanClose          decimal.Decimal
	StdDevClose        decimal.Decimal
	TotalReturnPercent decimal.Decimal
	Last               []DayClose
}

// Window is the trailing date range requested from a provider.
type Window struct {
	Start time.Time
	End   time.Time
	// RequestEnd is End plus one day, for providers whose end bound is exclusive.
	RequestEnd time.Time
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func int64Ptr(v int64) *int64 {
	if v == 0 {
		return nil
	}
	return &v
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	if d.IsZero() {
		return nil
	}
	return &d
}
