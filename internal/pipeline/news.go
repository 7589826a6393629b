package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dyike/FiiGo/config"
	"github.com/dyike/FiiGo/internal/dataflows"
	"github.com/dyike/FiiGo/internal/display"
	"github.com/dyike/FiiGo/internal/logger"
	"github.com/dyike/FiiGo/internal/utils"
)

// NewsFetcher returns the news items found at a listing page.
type NewsFetcher interface {
	GetNews(ctx context.Context, pageURL string, maxItems int) ([]dataflows.NewsItem, error)
}

// NewsOptions override the configured source and destination of a run.
type NewsOptions struct {
	URL      string
	MaxItems int
	// Output is the CSV filename; empty means the timestamped default.
	Output string
}

// NewsSession scrapes one listing page and exports it to CSV.
type NewsSession struct {
	config  *config.Config
	fetcher NewsFetcher
	csv     *utils.CSVManager
	display *display.ResultsDisplay
	opts    NewsOptions
}

// NewNewsSession creates a news run reporting to out. Zero option values fall
// back to the configuration.
func NewNewsSession(cfg *config.Config, opts NewsOptions, out io.Writer) *NewsSession {
	if opts.URL == "" {
		opts.URL = cfg.NewsURL
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = cfg.MaxNews
	}

	return &NewsSession{
		config:  cfg,
		fetcher: dataflows.NewNewsScraperClient(cfg),
		csv:     utils.NewCSVManager(cfg.OutputDir),
		display: display.NewResultsDisplay(out),
		opts:    opts,
	}
}

// WithFetcher replaces the page scraper.
func (s *NewsSession) WithFetcher(f NewsFetcher) *NewsSession {
	s.fetcher = f
	return s
}

// Execute fetches, previews and exports the news. A page without news is not
// an error and writes no file.
func (s *NewsSession) Execute(ctx context.Context) error {
	log := logger.Log.WithFields(logger.Fields{
		"url": s.opts.URL,
		"max": s.opts.MaxItems,
	})
	log.Info("fetching news")

	items, err := s.fetcher.GetNews(ctx, s.opts.URL, s.opts.MaxItems)
	if errors.Is(err, dataflows.ErrNoNews) {
		log.Warn("no news found")
		s.display.NoNews()
		return nil
	}
	if err != nil {
		log.WithError(err).Error("news fetch failed")
		s.display.Error("Error accessing the page", err)
		return err
	}

	log.WithField("items", len(items)).Info("news extracted")
	s.display.NewsPreview(items)

	path, err := s.csv.WriteNewsToCSV(items, s.opts.Output)
	if err != nil {
		log.WithError(err).Error("csv export failed")
		s.display.Error("Error saving file", err)
		return fmt.Errorf("export news: %w", err)
	}

	log.WithField("path", path).Info("news exported")
	s.display.FileSaved(path)
	return nil
}
