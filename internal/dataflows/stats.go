package dataflows

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// lastSessions is how many trailing bars Stats.Last keeps.
const lastSessions = 5

var hundred = decimal.NewFromInt(100)

// SummarizeHistory computes the price statistics of bars, which must be
// ordered by date. The standard deviation is the sample one (n-1) and is zero
// for a single bar.
func SummarizeHistory(bars []PriceBar) (*Stats, error) {
	if len(bars) == 0 {
		return nil, ErrEmptyHistory
	}

	first := bars[0].Close
	if first.IsZero() {
		return nil, fmt.Errorf("first close on %s is zero, total return undefined", bars[0].Date.Format("2006-01-02"))
	}

	maxHigh := bars[0].High
	minLow := bars[0].Low
	sum := decimal.Zero
	for _, bar := range bars {
		if bar.High.GreaterThan(maxHigh) {
			maxHigh = bar.High
		}
		if bar.Low.LessThan(minLow) {
			minLow = bar.Low
		}
		sum = sum.Add(bar.Close)
	}

	n := decimal.NewFromInt(int64(len(bars)))
	mean := sum.Div(n)

	stdDev := decimal.Zero
	if len(bars) > 1 {
		sq := decimal.Zero
		for _, bar := range bars {
			diff := bar.Close.Sub(mean)
			sq = sq.Add(diff.Mul(diff))
		}
		variance := sq.Div(decimal.NewFromInt(int64(len(bars) - 1)))
		stdDev = decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
	}

	last := bars[len(bars)-1].Close
	totalReturn := last.Sub(first).Div(first).Mul(hundred)

	tail := bars[max(0, len(bars)-lastSessions):]
	lastDays := make([]DayClose, 0, len(tail))
	for _, bar := range tail {
		lastDays = append(lastDays, DayClose{Date: bar.Date, Close: bar.Close, Volume: bar.Volume})
	}

	return &Stats{
		Count:              len(bars),
		MaxHigh:            maxHigh,
		MinLow:             minLow,
		MeanClose:          mean,
		StdDevClose:        stdDev,
		TotalReturnPercent: totalReturn,
		Last:               lastDays,
	}, nil
}
