package dataflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/dyike/FiiGo/config"
	"github.com/dyike/FiiGo/internal/logger"
)

const (
	yahooChartBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooChartUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// YahooChartClient reads the Yahoo v8 chart endpoint directly over HTTP.
type YahooChartClient struct {
	client *resty.Client
}

// NewYahooChartClient creates a chart client. A configured user agent replaces
// the browser one Yahoo expects.
func NewYahooChartClient(cfg *config.Config) *YahooChartClient {
	userAgent := yahooChartUserAgent
	if cfg != nil && cfg.UserAgent != "" {
		userAgent = cfg.UserAgent
	}

	client := resty.New().
		SetBaseURL(yahooChartBaseURL).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": userAgent,
		})

	return &YahooChartClient{client: client}
}

// WithBaseURL points the client at another chart endpoint.
func (yc *YahooChartClient) WithBaseURL(baseURL string) *YahooChartClient {
	yc.client.SetBaseURL(baseURL)
	return yc
}

func (yc *YahooChartClient) Name() string { return "yahoo-http" }

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta       yahooChartMeta `json:"meta"`
	Timestamp  []int64        `json:"timestamp"`
	Indicators struct {
		Quote []yahooQuoteSeries `json:"quote"`
	} `json:"indicators"`
}

type yahooChartMeta struct {
	Symbol               string   `json:"symbol"`
	LongName             string   `json:"longName"`
	ShortName            string   `json:"shortName"`
	ExchangeTimezoneName string   `json:"exchangeTimezoneName"`
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	RegularMarketVolume  *int64   `json:"regularMarketVolume"`
	ChartPreviousClose   *float64 `json:"chartPreviousClose"`
	PreviousClose        *float64 `json:"previousClose"`
}

type yahooQuoteSeries struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// GetInstrumentSummary reads the meta block of a one-day chart.
func (yc *YahooChartClient) GetInstrumentSummary(ctx context.Context, symbol string) (*InstrumentSummary, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	result, err := yc.fetch(ctx, symbol, map[string]string{
		"range":    "1d",
		"interval": "1d",
	})
	if err != nil {
		return nil, err
	}

	summary := &InstrumentSummary{Symbol: symbol}
	if result == nil {
		return summary, nil
	}

	meta := result.Meta
	summary.LongName = stringPtr(meta.LongName)
	if summary.LongName == nil {
		summary.LongName = stringPtr(meta.ShortName)
	}
	if meta.RegularMarketPrice != nil {
		price := decimal.NewFromFloat(*meta.RegularMarketPrice)
		summary.CurrentPrice = &price

		prev := meta.ChartPreviousClose
		if prev == nil {
			prev = meta.PreviousClose
		}
		if prev != nil && *prev != 0 {
			base := decimal.NewFromFloat(*prev)
			change := price.Sub(base).Div(base).Mul(hundred)
			summary.ChangePercent = &change
		}
	}
	if meta.RegularMarketVolume != nil {
		volume := *meta.RegularMarketVolume
		summary.Volume = &volume
	}

	return summary, nil
}

// GetPriceHistory gets daily bars for symbol in [start, end). Rows Yahoo
// reports as null are dropped.
func (yc *YahooChartClient) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]PriceBar, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	result, err := yc.fetch(ctx, symbol, map[string]string{
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(end.Unix(), 10),
		"interval": "1d",
		"events":   "history",
	})
	if err != nil {
		return nil, err
	}
	if result == nil || len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return []PriceBar{}, nil
	}

	loc := exchangeLocation(result.Meta.ExchangeTimezoneName)

	series := result.Indicators.Quote[0]
	bars := make([]PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closeVal := floatAt(series.Close, i)
		if closeVal == nil {
			continue
		}
		day := dateOf(time.Unix(ts, 0), loc)
		if !inWindow(day, start, end) {
			continue
		}

		bar := PriceBar{
			Date:  day,
			Close: decimal.NewFromFloat(*closeVal),
		}
		bar.Open = decimalOr(floatAt(series.Open, i), bar.Close)
		bar.High = decimalOr(floatAt(series.High, i), bar.Close)
		bar.Low = decimalOr(floatAt(series.Low, i), bar.Close)
		if i < len(series.Volume) && series.Volume[i] != nil {
			bar.Volume = *series.Volume[i]
		}
		bars = append(bars, bar)
	}

	return normalizeBars(bars), nil
}

func (yc *YahooChartClient) fetch(ctx context.Context, symbol string, params map[string]string) (*yahooChartResult, error) {
	path := "/" + url.PathEscape(symbol)
	resp, err := yc.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)

	target := yc.client.BaseURL + path
	if err != nil {
		return nil, &FetchError{URL: target, Err: err}
	}

	var body yahooChartResponse
	parseErr := json.Unmarshal(resp.Body(), &body)

	if !resp.IsSuccess() {
		fetchErr := &FetchError{URL: target, StatusCode: resp.StatusCode()}
		if parseErr == nil && body.Chart.Error != nil {
			fetchErr.Err = fmt.Errorf("HTTP error %d: %s", resp.StatusCode(), body.Chart.Error.Description)
		}
		return nil, fetchErr
	}
	if parseErr != nil {
		return nil, fmt.Errorf("%w: decode chart response: %v", ErrParse, parseErr)
	}
	if body.Chart.Error != nil {
		return nil, &FetchError{URL: target, StatusCode: resp.StatusCode(), Err: errors.New(body.Chart.Error.Description)}
	}

	logger.Log.WithFields(logger.Fields{
		"symbol":  symbol,
		"results": len(body.Chart.Result),
	}).Debug("yahoo chart response")

	if len(body.Chart.Result) == 0 {
		return nil, nil
	}
	return &body.Chart.Result[0], nil
}

func floatAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func decimalOr(v *float64, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return decimal.NewFromFloat(*v)
}
