package dataflows

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// windowDays is the distance between the first and last requested day:
// one year minus one day, anchored to yesterday.
const windowDays = 364

var symbolPattern = regexp.MustCompile(`^[A-Z0-9^=][A-Z0-9.=^-]*$`)

// TrailingWindow returns the history range ending on the calendar day before
// now. Dates are built in UTC so End-Start is always exactly 364 days.
func TrailingWindow(now time.Time) Window {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -windowDays)

	return Window{
		Start:      start,
		End:        end,
		RequestEnd: end.AddDate(0, 0, 1),
	}
}

// ValidateSymbol checks if a ticker symbol is valid format
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 16 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts symbol to standard format
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// FormatDateRange creates a human-readable date range string
func FormatDateRange(start, end time.Time) string {
	return fmt.Sprintf("%s to %s",
		start.Format("02/01/2006"),
		end.Format("02/01/2006"))
}

// exchangeLocation loads the exchange time zone Yahoo reports for a chart.
// Unknown or empty names fall back to UTC.
func exchangeLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// dateOf truncates t to its calendar day in loc, returned at UTC midnight.
func dateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
