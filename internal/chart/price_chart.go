package chart

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/dyike/FiiGo/internal/dataflows"
	"github.com/dyike/FiiGo/internal/logger"
)

const (
	chartWidth  = 12 * vg.Inch
	chartHeight = 6 * vg.Inch
	dateFormat  = "02/01/2006"
)

// PriceChart renders closing-price line charts as PNG files.
type PriceChart struct {
	dir string
	now func() time.Time
}

func NewPriceChart(dir string) *PriceChart {
	return &PriceChart{dir: dir, now: time.Now}
}

// Render draws the close of each bar over its date and returns the PNG path,
// <dir>/<ticker>_close_<YYYYMMDD_HHMMSS>.png.
func (pc *PriceChart) Render(ticker string, bars []dataflows.PriceBar) (string, error) {
	if len(bars) == 0 {
		return "", errors.New("no price bars to plot")
	}

	points := make(plotter.XYs, len(bars))
	for i, bar := range bars {
		points[i].X = float64(bar.Date.Unix())
		points[i].Y = bar.Close.InexactFloat64()
	}

	p := plot.New()
	p.Title.Text = "Closing prices - " + ticker
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Price (R$)"
	p.X.Tick.Marker = plot.TimeTicks{Format: dateFormat}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(points)
	if err != nil {
		return "", fmt.Errorf("build chart line: %w", err)
	}
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	if err := os.MkdirAll(pc.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}

	filename := fmt.Sprintf("%s_close_%s.png", fileSafe(ticker), pc.now().Format("20060102_150405"))
	path := filepath.Join(pc.dir, filename)
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return "", fmt.Errorf("failed to save chart: %w", err)
	}

	logger.Log.WithFields(logger.Fields{
		"ticker": ticker,
		"points": len(points),
		"path":   path,
	}).Debug("chart saved")

	return path, nil
}

// fileSafe replaces characters that cannot appear in a file name.
func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}
