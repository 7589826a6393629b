package dataflows

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/piquette/finance-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryFromQuote(t *testing.T) {
	tests := []struct {
		name       string
		quote      finance.Quote
		wantName   string
		wantPrice  string
		wantChange string
		wantVolume int64
	}{
		{
			name: "full quote",
			quote: finance.Quote{
				ShortName:                  "FII KINEA RI",
				RegularMarketPrice:         101.25,
				RegularMarketChangePercent: -0.5,
				RegularMarketVolume:        152300,
			},
			wantName:   "FII KINEA RI",
			wantPrice:  "101.25",
			wantChange: "-0.5",
			wantVolume: 152300,
		},
		{
			name:  "zero values are not available",
			quote: finance.Quote{},
		},
		{
			name: "name only",
			quote: finance.Quote{
				ShortName: "FII CSHG LOG",
			},
			wantName: "FII CSHG LOG",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			summary := summaryFromQuote("KNCR11.SA", &tc.quote)
			require.NotNil(t, summary)
			assert.Equal(t, "KNCR11.SA", summary.Symbol)
			assert.Nil(t, summary.Sector)
			assert.Nil(t, summary.Industry)
			assert.Nil(t, summary.MarketCap)

			if tc.wantName == "" {
				assert.Nil(t, summary.LongName)
			} else {
				require.NotNil(t, summary.LongName)
				assert.Equal(t, tc.wantName, *summary.LongName)
			}
			if tc.wantPrice == "" {
				assert.Nil(t, summary.CurrentPrice)
			} else {
				require.NotNil(t, summary.CurrentPrice)
				assert.True(t, summary.CurrentPrice.Equal(decimal.RequireFromString(tc.wantPrice)), summary.CurrentPrice.String())
			}
			if tc.wantChange == "" {
				assert.Nil(t, summary.ChangePercent)
			} else {
				require.NotNil(t, summary.ChangePercent)
				assert.True(t, summary.ChangePercent.Equal(decimal.RequireFromString(tc.wantChange)), summary.ChangePercent.String())
			}
			if tc.wantVolume == 0 {
				assert.Nil(t, summary.Volume)
			} else {
				require.NotNil(t, summary.Volume)
				assert.Equal(t, tc.wantVolume, *summary.Volume)
			}
		})
	}
}

func TestChartBarsUseExchangeTimeZone(t *testing.T) {
	tokyo := exchangeLocation("Asia/Tokyo")
	require.Equal(t, "Asia/Tokyo", tokyo.String())

	// 23:30 UTC on Oct 16 is 08:30 on Oct 17 in Tokyo.
	ts := time.Date(2026, time.October, 16, 23, 30, 0, 0, time.UTC)
	raw := []*finance.ChartBar{{
		Open:      decimal.NewFromInt(10),
		High:      decimal.NewFromInt(12),
		Low:       decimal.NewFromInt(9),
		Close:     decimal.NewFromInt(11),
		Volume:    500,
		Timestamp: int(ts.Unix()),
	}}
	start := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	bars := chartBars(raw, tokyo, start, end)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, int64(500), bars[0].Volume)

	bars = chartBars(raw, time.UTC, start, end)
	require.Len(t, bars, 1)
	assert.Equal(t, time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), bars[0].Date)
}

func TestChartBarsFiltersAndSorts(t *testing.T) {
	saoPaulo := exchangeLocation("America/Sao_Paulo")
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 8, 0, 0, 0, 0, time.UTC)
	at := func(day int, c int64) *finance.ChartBar {
		ts := time.Date(2026, time.January, day, 13, 0, 0, 0, time.UTC)
		return &finance.ChartBar{Close: decimal.NewFromInt(c), Timestamp: int(ts.Unix())}
	}

	bars := chartBars([]*finance.ChartBar{at(7, 12), nil, at(4, 9), at(5, 10), at(8, 13), at(6, 0)}, saoPaulo, start, end)
	require.Len(t, bars, 2)
	assert.Equal(t, 5, bars[0].Date.Day())
	assert.Equal(t, 7, bars[1].Date.Day())
}

func TestExchangeLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, exchangeLocation(""))
	assert.Equal(t, time.UTC, exchangeLocation("Not/AZone"))
}
