package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dyike/FiiGo/internal/dataflows"
	"github.com/dyike/FiiGo/internal/display"
	"github.com/dyike/FiiGo/internal/logger"
)

// ConfirmFunc asks a yes/no question.
type ConfirmFunc func(question string) (bool, error)

// Always returns a ConfirmFunc that answers without asking.
func Always(answer bool) ConfirmFunc {
	return func(string) (bool, error) { return answer, nil }
}

// ChartRenderer draws a closing-price chart and returns where it was written.
type ChartRenderer interface {
	Render(ticker string, bars []dataflows.PriceBar) (string, error)
}

// PriceSession reports a year of price history for one ticker.
type PriceSession struct {
	provider dataflows.PriceProvider
	renderer ChartRenderer
	confirm  ConfirmFunc
	display  *display.ResultsDisplay
	now      func() time.Time
}

// NewPriceSession creates a price run reporting to out. A nil confirm never
// renders the chart.
func NewPriceSession(provider dataflows.PriceProvider, renderer ChartRenderer, confirm ConfirmFunc, out io.Writer) *PriceSession {
	if confirm == nil {
		confirm = Always(false)
	}
	return &PriceSession{
		provider: provider,
		renderer: renderer,
		confirm:  confirm,
		display:  display.NewResultsDisplay(out),
		now:      time.Now,
	}
}

// Execute runs summary, history, statistics and the optional chart for ticker.
// An empty history is reported and is not an error.
func (s *PriceSession) Execute(ctx context.Context, ticker string) error {
	if err := dataflows.ValidateSymbol(ticker); err != nil {
		s.display.Error("Invalid ticker", err)
		return err
	}
	ticker = dataflows.NormalizeSymbol(ticker)

	log := logger.Log.WithFields(logger.Fields{
		"ticker":   ticker,
		"provider": s.provider.Name(),
	})
	log.Info("fetching instrument data")

	summary, err := s.provider.GetInstrumentSummary(ctx, ticker)
	if err != nil || summary == nil {
		log.WithError(err).Warn("instrument summary unavailable")
		if err != nil {
			s.display.Warning("Could not load basic information: " + err.Error())
		}
		summary = &dataflows.InstrumentSummary{Symbol: ticker}
	}
	s.display.InstrumentSummary(summary)

	window := dataflows.TrailingWindow(s.now())
	s.display.HistoryWindow(ticker, window)

	bars, err := s.provider.GetPriceHistory(ctx, ticker, window.Start, window.RequestEnd)
	if err != nil {
		log.WithError(err).Error("price history fetch failed")
		s.display.Error("Error fetching data for "+ticker, err)
		return err
	}
	if len(bars) == 0 {
		log.Warn("no historical data")
		s.display.NoHistory(ticker)
		return nil
	}

	stats, err := dataflows.SummarizeHistory(bars)
	if err != nil {
		log.WithError(err).Error("statistics failed")
		s.display.Error("Error computing statistics for "+ticker, err)
		return err
	}
	log.WithField("bars", stats.Count).Info("history summarized")
	s.display.Stats(ticker, stats)

	ok, err := s.confirm(fmt.Sprintf("Do you want to view the %s price chart? (s/n)", ticker))
	if err != nil {
		return fmt.Errorf("chart prompt: %w", err)
	}
	if !ok || s.renderer == nil {
		log.Debug("chart skipped")
		return nil
	}

	path, err := s.renderer.Render(ticker, bars)
	if err != nil {
		log.WithError(err).Error("chart render failed")
		s.display.Error("Error rendering chart", err)
		return err
	}
	log.WithField("path", path).Info("chart saved")
	s.display.ChartSaved(path)
	return nil
}
