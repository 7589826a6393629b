package utils

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dyike/FiiGo/internal/dataflows"
)

const newsFilePrefix = "noticias_fii_"

// utf8BOM lets spreadsheet tools detect the encoding of exported files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var newsHeader = []string{"titulo", "link", "data", "resumo"}

type CSVManager struct {
	basePath string
}

func NewCSVManager(basePath string) *CSVManager {
	return &CSVManager{
		basePath: basePath,
	}
}

// DefaultNewsFilename returns noticias_fii_YYYYMMDD_HHMMSS.csv for now.
func DefaultNewsFilename(now time.Time) string {
	return newsFilePrefix + now.Format("20060102_150405") + ".csv"
}

// WriteNewsToCSV writes items with a titulo,link,data,resumo header and
// returns the path written. An empty filename uses DefaultNewsFilename, a
// relative one is placed under the base path.
func (c *CSVManager) WriteNewsToCSV(items []dataflows.NewsItem, filename string) (string, error) {
	if filename == "" {
		filename = DefaultNewsFilename(time.Now())
	}
	filePath := filename
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(c.basePath, filename)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(utf8BOM); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(newsHeader); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}

	for _, item := range items {
		row := []string{item.Title, item.Link, item.PublishedLabel, item.Summary}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV file: %w", err)
	}

	return filePath, nil
}

// ReadNewsFromCSV reads a file written by WriteNewsToCSV. Columns are located
// by header name, so reordered or extra columns are tolerated.
func (c *CSVManager) ReadNewsFromCSV(filePath string) ([]dataflows.NewsItem, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("no header in CSV file %s", filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range []string{"titulo", "link"} {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("CSV file %s has no %q column", filePath, name)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	items := []dataflows.NewsItem{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		items = append(items, dataflows.NewsItem{
			Title:          field(record, "titulo"),
			Link:           field(record, "link"),
			PublishedLabel: field(record, "data"),
			Summary:        field(record, "resumo"),
		})
	}

	return items, nil
}

// FindLatestNewsCSV returns the most recently modified news export under the
// base path.
func (c *CSVManager) FindLatestNewsCSV() (string, error) {
	files, err := filepath.Glob(filepath.Join(c.basePath, newsFilePrefix+"*.csv"))
	if err != nil {
		return "", fmt.Errorf("failed to search CSV files: %w", err)
	}

	var bestFile string
	var latestTime time.Time
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}
		if bestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			bestFile = file
		}
	}

	if bestFile == "" {
		return "", fmt.Errorf("no news CSV files found in %s", c.basePath)
	}
	return bestFile, nil
}
