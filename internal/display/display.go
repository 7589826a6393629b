package display

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/dyike/FiiGo/internal/dataflows"
)

const (
	notAvailable  = "N/A"
	previewRows   = 5
	maxCellLength = 60
	ruleWidth     = 74
)

// ResultsDisplay prints pipeline reports to a writer. Styles are only
// colored when the writer is a terminal.
type ResultsDisplay struct {
	out io.Writer

	section lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// NewResultsDisplay creates a display writing to out.
func NewResultsDisplay(out io.Writer) *ResultsDisplay {
	r := lipgloss.NewRenderer(out)
	return &ResultsDisplay{
		out:     out,
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		label:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		success: r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true),
	}
}

// NoNews is the whole report of a run that found nothing.
func (d *ResultsDisplay) NoNews() {
	fmt.Fprintln(d.out, "No news found.")
}

// NewsPreview shows the first rows of a scrape, like a dataframe head.
func (d *ResultsDisplay) NewsPreview(items []dataflows.NewsItem) {
	d.showSection(fmt.Sprintf("📰 FII NEWS (%d found)", len(items)))
	d.newsTable(items[:min(len(items), previewRows)])
	if len(items) > previewRows {
		fmt.Fprintln(d.out, d.muted.Render(fmt.Sprintf("... and %d more", len(items)-previewRows)))
	}
	fmt.Fprintln(d.out)
}

// NewsList shows every item of an exported file.
func (d *ResultsDisplay) NewsList(path string, items []dataflows.NewsItem) {
	d.showSection("📄 " + path)
	if len(items) == 0 {
		fmt.Fprintln(d.out, d.muted.Render("(file has no rows)"))
		return
	}
	for i, item := range items {
		fmt.Fprintf(d.out, "%d. %s\n", i+1, item.Title)
		fmt.Fprintf(d.out, "   %s %s\n", d.label.Render("link:"), item.Link)
		if item.PublishedLabel != "" {
			fmt.Fprintf(d.out, "   %s %s\n", d.label.Render("data:"), item.PublishedLabel)
		}
		if item.Summary != "" {
			fmt.Fprintf(d.out, "   %s\n", item.Summary)
		}
	}
	fmt.Fprintln(d.out)
}

// FileSaved reports the path of a written export.
func (d *ResultsDisplay) FileSaved(path string) {
	fmt.Fprintln(d.out, d.success.Render("✅ File saved: ")+path)
}

// InstrumentSummary prints the descriptive snapshot; missing fields read N/A.
func (d *ResultsDisplay) InstrumentSummary(s *dataflows.InstrumentSummary) {
	d.showSection("📊 BASIC INFORMATION - " + s.Symbol)
	d.field("Name", stringOrNA(s.LongName))
	d.field("Sector", stringOrNA(s.Sector))
	d.field("Industry", stringOrNA(s.Industry))
	d.field("Current price", moneyOrNA(s.CurrentPrice))
	d.field("Change", percentOrNA(s.ChangePercent))
	d.field("Volume", intOrNA(s.Volume))
	d.field("Market cap", moneyIntOrNA(s.MarketCap))
	fmt.Fprintln(d.out)
}

// HistoryWindow prints the requested date range.
func (d *ResultsDisplay) HistoryWindow(ticker string, w dataflows.Window) {
	d.showSection("📈 HISTORICAL DATA - " + ticker)
	d.field("Period", dataflows.FormatDateRange(w.Start, w.End))
	fmt.Fprintln(d.out, d.muted.Render("(exactly one year minus one day)"))
}

// Stats prints the history statistics and the last sessions.
func (d *ResultsDisplay) Stats(ticker string, stats *dataflows.Stats) {
	d.field("Trading days", strconv.Itoa(stats.Count))
	fmt.Fprintln(d.out)
	d.field("Highest price", money(stats.MaxHigh))
	d.field("Lowest price", money(stats.MinLow))
	d.field("Average price", money(stats.MeanClose))
	d.field("Volatility (std dev)", money(stats.StdDevClose))
	d.field("Total return", stats.TotalReturnPercent.StringFixed(2)+"%")
	fmt.Fprintln(d.out)

	fmt.Fprintf(d.out, "Last %d days of %s:\n", len(stats.Last), ticker)
	for _, day := range stats.Last {
		fmt.Fprintf(d.out, "  %s: %s (Vol: %s)\n",
			day.Date.Format("02/01/2006"), money(day.Close), humanize.Comma(day.Volume))
	}
	fmt.Fprintln(d.out)
}

// NoHistory reports an empty history window.
func (d *ResultsDisplay) NoHistory(ticker string) {
	fmt.Fprintln(d.out, d.warning.Render("⚠️  No historical data found for "+ticker+"."))
}

// ChartSaved reports where the closing-price chart was written.
func (d *ResultsDisplay) ChartSaved(path string) {
	fmt.Fprintln(d.out, d.success.Render("📉 Chart saved: ")+path)
}

// Error prints a user-facing failure line. Fetch failures name the URL and
// status.
func (d *ResultsDisplay) Error(context string, err error) {
	var fetchErr *dataflows.FetchError
	msg := err.Error()
	if errors.As(err, &fetchErr) && fetchErr.Err == nil {
		msg = fmt.Sprintf("%s returned HTTP %d", fetchErr.URL, fetchErr.StatusCode)
	}
	fmt.Fprintln(d.out, d.failure.Render("❌ "+context+": ")+msg)
}

// Warning prints a non-fatal notice.
func (d *ResultsDisplay) Warning(msg string) {
	fmt.Fprintln(d.out, d.warning.Render("⚠️  "+msg))
}

func (d *ResultsDisplay) showSection(title string) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, d.section.Render(title))
	fmt.Fprintln(d.out, strings.Repeat("═", ruleWidth))
}

func (d *ResultsDisplay) field(name, value string) {
	fmt.Fprintf(d.out, "%s %s\n", d.label.Render(name+":"), value)
}

func (d *ResultsDisplay) newsTable(items []dataflows.NewsItem) {
	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			strconv.Itoa(i),
			truncate(item.Title),
			truncate(item.PublishedLabel),
			truncate(item.Link),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "titulo", "data", "link").
		Rows(rows...)
	fmt.Fprintln(d.out, t.Render())
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellLength {
		return s
	}
	return string(runes[:maxCellLength-1]) + "…"
}

func money(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

func stringOrNA(s *string) string {
	if s == nil {
		return notAvailable
	}
	return *s
}

func moneyOrNA(d *decimal.Decimal) string {
	if d == nil {
		return notAvailable
	}
	return money(*d)
}

func percentOrNA(d *decimal.Decimal) string {
	if d == nil {
		return notAvailable
	}
	return d.StringFixed(2) + "%"
}

func intOrNA(v *int64) string {
	if v == nil {
		return notAvailable
	}
	return humanize.Comma(*v)
}

func moneyIntOrNA(v *int64) string {
	if v == nil {
		return notAvailable
	}
	return "R$ " + humanize.Comma(*v)
}
