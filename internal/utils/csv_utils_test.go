package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/FiiGo/internal/dataflows"
)

func sampleNews() []dataflows.NewsItem {
	return []dataflows.NewsItem{
		{
			Title:          "KNCR11 paga R$ 1,10, maior dividendo do ano",
			Link:           "https://www.infomoney.com.br/onde-investir/kncr11/",
			PublishedLabel: "17 out 2026 09h30",
			Summary:        "Fundo de papel \"high grade\" distribui rendimentos",
		},
		{
			Title:          "Fundos imobiliários: o que esperar?",
			Link:           "https://www.infomoney.com.br/mercados/fiis/",
			PublishedLabel: "",
			Summary:        "Linha um\nlinha dois, com vírgula",
		},
		{
			Title: "Sem resumo",
			Link:  "https://www.infomoney.com.br/x/",
		},
	}
}

func TestWriteReadNewsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	manager := NewCSVManager(dir)
	items := sampleNews()

	path, err := manager.WriteNewsToCSV(items, "export.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export.csv"), path)

	got, err := manager.ReadNewsFromCSV(path)
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestWriteNewsToCSVHeaderAndBOM(t *testing.T) {
	manager := NewCSVManager(t.TempDir())

	path, err := manager.WriteNewsToCSV(sampleNews()[:1], "news.csv")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
	require.True(t, bytes.HasPrefix(data[3:], []byte("titulo,link,data,resumo\n")))
}

func TestWriteNewsToCSVEmpty(t *testing.T) {
	manager := NewCSVManager(t.TempDir())

	path, err := manager.WriteNewsToCSV(nil, "empty.csv")
	require.NoError(t, err)

	got, err := manager.ReadNewsFromCSV(path)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestWriteNewsToCSVDefaultFilename(t *testing.T) {
	dir := t.TempDir()
	manager := NewCSVManager(dir)

	path, err := manager.WriteNewsToCSV(sampleNews(), "")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Regexp(t, regexp.MustCompile(`^noticias_fii_\d{8}_\d{6}\.csv$`), filepath.Base(path))
}

func TestWriteNewsToCSVAbsolutePath(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "out.csv")
	manager := NewCSVManager(t.TempDir())

	path, err := manager.WriteNewsToCSV(sampleNews(), target)
	require.NoError(t, err)
	assert.Equal(t, target, path)
	assert.FileExists(t, target)
}

func TestWriteNewsToCSVUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	manager := NewCSVManager(blocker)
	_, err := manager.WriteNewsToCSV(sampleNews(), "out.csv")
	require.Error(t, err)
}

func TestDefaultNewsFilename(t *testing.T) {
	now := time.Date(2026, time.October, 18, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "noticias_fii_20261018_090507.csv", DefaultNewsFilename(now))
}

func TestReadNewsFromCSVColumnsByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reordered.csv")
	content := "resumo,titulo,extra,link\nR1,T1,x,https://a\nR2,T2,y,https://b\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := NewCSVManager("").ReadNewsFromCSV(path)
	require.NoError(t, err)
	require.Equal(t, []dataflows.NewsItem{
		{Title: "T1", Link: "https://a", Summary: "R1"},
		{Title: "T2", Link: "https://b", Summary: "R2"},
	}, got)
}

func TestReadNewsFromCSVErrors(t *testing.T) {
	manager := NewCSVManager("")
	dir := t.TempDir()

	_, err := manager.ReadNewsFromCSV(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = manager.ReadNewsFromCSV(empty)
	require.Error(t, err)

	noLink := filepath.Join(dir, "nolink.csv")
	require.NoError(t, os.WriteFile(noLink, []byte("titulo,data\nT,D\n"), 0o644))
	_, err = manager.ReadNewsFromCSV(noLink)
	require.ErrorContains(t, err, "link")
}

func TestFindLatestNewsCSV(t *testing.T) {
	dir := t.TempDir()
	manager := NewCSVManager(dir)

	_, err := manager.FindLatestNewsCSV()
	require.Error(t, err)

	older := filepath.Join(dir, "noticias_fii_20260101_000000.csv")
	newer := filepath.Join(dir, "noticias_fii_20260102_000000.csv")
	other := filepath.Join(dir, "other.csv")
	for _, p := range []string{older, newer, other} {
		require.NoError(t, os.WriteFile(p, []byte("titulo,link\n"), 0o644))
	}
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))
	require.NoError(t, os.Chtimes(newer, time.Now(), time.Now()))

	latest, err := manager.FindLatestNewsCSV()
	require.NoError(t, err)
	assert.Equal(t, newer, latest)
}
