package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/FiiGo/internal/dataflows"
)

func TestRenderWritesPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	pc := NewPriceChart(dir)
	pc.now = func() time.Time { return time.Date(2026, time.October, 18, 10, 30, 0, 0, time.UTC) }

	day := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]dataflows.PriceBar, 0, 10)
	for i := 0; i < 10; i++ {
		bars = append(bars, dataflows.PriceBar{
			Date:  day.AddDate(0, 0, i),
			Close: decimal.NewFromFloat(100 + float64(i)/2),
		})
	}

	path, err := pc.Render("KNCR11.SA", bars)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "KNCR11.SA_close_20261018_103000.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestRenderSingleBar(t *testing.T) {
	pc := NewPriceChart(t.TempDir())
	bars := []dataflows.PriceBar{{
		Date:  time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
		Close: decimal.NewFromInt(98),
	}}

	path, err := pc.Render("KNCR11.SA", bars)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestRenderEmpty(t *testing.T) {
	dir := t.TempDir()
	_, err := NewPriceChart(dir).Render("KNCR11.SA", nil)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileSafe(t *testing.T) {
	assert.Equal(t, "BRL=X", fileSafe("BRL=X"))
	assert.Equal(t, "A_B_C", fileSafe("A/B:C"))
}
