package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/FiiGo/config"
	"github.com/dyike/FiiGo/internal/dataflows"
	"github.com/dyike/FiiGo/internal/logger"
	"github.com/dyike/FiiGo/internal/utils"
)

func TestMain(m *testing.M) {
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const listingPage = `<html><body>
<div data-ds-component="card-lg">
  <h2>KNCR11 anuncia dividendos</h2>
  <a href="/onde-investir/kncr11/">ler</a>
  <div class="inline-flex">17 out 2026</div>
  <div class="md:line-clamp-3">Fundo distribui R$ 1,10, maior valor do ano</div>
</div>
<div data-ds-component="card-sm">
  <h2>Sem link</h2>
</div>
<div data-ds-component="card-sm">
  <h2>HGLG11 compra galpão</h2>
  <a href="https://www.infomoney.com.br/hglg11/">ler</a>
</div>
</body></html>`

func newsConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.OutputDir = t.TempDir()
	return cfg
}

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func csvFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	require.NoError(t, err)
	return files
}

func TestNewsSessionExportsCSV(t *testing.T) {
	cfg := newsConfig(t)
	url := serve(t, http.StatusOK, listingPage)

	var out bytes.Buffer
	err := NewNewsSession(cfg, NewsOptions{URL: url + "/tudo-sobre/fundos-imobiliarios/"}, &out).Execute(context.Background())
	require.NoError(t, err)

	files := csvFiles(t, cfg.OutputDir)
	require.Len(t, files, 1)
	assert.Regexp(t, `noticias_fii_\d{8}_\d{6}\.csv$`, files[0])

	items, err := utils.NewCSVManager(cfg.OutputDir).ReadNewsFromCSV(files[0])
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, url+"/onde-investir/kncr11/", items[0].Link)
	assert.Equal(t, "17 out 2026", items[0].PublishedLabel)
	assert.Equal(t, "HGLG11 compra galpão", items[1].Title)

	assert.Contains(t, out.String(), "KNCR11 anuncia dividendos")
	assert.Contains(t, out.String(), files[0])
}

func TestNewsSessionRespectsMaxAndOutput(t *testing.T) {
	cfg := newsConfig(t)
	url := serve(t, http.StatusOK, listingPage)

	err := NewNewsSession(cfg, NewsOptions{URL: url, MaxItems: 1, Output: "fii.csv"}, io.Discard).Execute(context.Background())
	require.NoError(t, err)

	items, err := utils.NewCSVManager(cfg.OutputDir).ReadNewsFromCSV(filepath.Join(cfg.OutputDir, "fii.csv"))
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestNewsSessionHTTPErrorWritesNothing(t *testing.T) {
	cfg := newsConfig(t)
	url := serve(t, http.StatusNotFound, "not here")

	var out bytes.Buffer
	err := NewNewsSession(cfg, NewsOptions{URL: url}, &out).Execute(context.Background())

	var fetchErr *dataflows.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Empty(t, csvFiles(t, cfg.OutputDir))
	assert.Contains(t, out.String(), "HTTP 404")
}

func TestNewsSessionNoNews(t *testing.T) {
	cfg := newsConfig(t)
	url := serve(t, http.StatusOK, `<html><body><div data-ds-component="card-lg"><h2>Sem link</h2></div></body></html>`)

	var out bytes.Buffer
	err := NewNewsSession(cfg, NewsOptions{URL: url}, &out).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "No news found.\n", out.String())
	assert.Empty(t, csvFiles(t, cfg.OutputDir))
}

type stubFetcher struct {
	items []dataflows.NewsItem
	err   error
	url   string
	max   int
}

func (f *stubFetcher) GetNews(_ context.Context, pageURL string, maxItems int) ([]dataflows.NewsItem, error) {
	f.url = pageURL
	f.max = maxItems
	return f.items, f.err
}

func TestNewsSessionDefaultsFromConfig(t *testing.T) {
	cfg := newsConfig(t)
	cfg.MaxNews = 7
	fetcher := &stubFetcher{err: dataflows.ErrNoNews}

	err := NewNewsSession(cfg, NewsOptions{}, io.Discard).WithFetcher(fetcher).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.NewsURL, fetcher.url)
	assert.Equal(t, 7, fetcher.max)
}

func TestNewsSessionExportFailure(t *testing.T) {
	cfg := newsConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	cfg.OutputDir = blocker

	fetcher := &stubFetcher{items: []dataflows.NewsItem{{Title: "t", Link: "https://l"}}}
	var out bytes.Buffer
	err := NewNewsSession(cfg, NewsOptions{}, &out).WithFetcher(fetcher).Execute(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, dataflows.ErrNoNews))
	assert.Contains(t, out.String(), "Error saving file")
}
