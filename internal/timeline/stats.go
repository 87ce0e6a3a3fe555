package timeline

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoOffers is returned when statistics are requested for an empty window
// set. Callers must surface this explicitly instead of showing zero values.
var ErrNoOffers = errors.New("no offer windows to summarise")

// Statistics summarises an offer-window set. Derived, never mutated directly;
// recomputed from scratch for every request.
type Statistics struct {
	TotalRecords       int
	TotalWindows       int
	MinPrice           decimal.Decimal
	MaxPrice           decimal.Decimal
	CurrentPrice       decimal.Decimal
	CurrentFormatted   string
	CurrentDiscountPct int
	Currency           string
}

// ComputeStatistics derives min/max/current figures from the window set.
// The current price comes from the window with the most recent End, ties
// broken by the most recent Start. rawRecords is the pre-windowing
// observation count, exposed separately from the window count.
func ComputeStatistics(windows []OfferWindow, rawRecords int) (Statistics, error) {
	if len(windows) == 0 {
		return Statistics{}, ErrNoOffers
	}

	current := windows[0]
	minPrice := windows[0].Price
	maxPrice := windows[0].Price

	for _, w := range windows[1:] {
		if w.Price.LessThan(minPrice) {
			minPrice = w.Price
		}
		if w.Price.GreaterThan(maxPrice) {
			maxPrice = w.Price
		}
		if w.End.After(current.End) || (w.End.Equal(current.End) && w.Start.After(current.Start)) {
			current = w
		}
	}

	return Statistics{
		TotalRecords:       rawRecords,
		TotalWindows:       len(windows),
		MinPrice:           minPrice,
		MaxPrice:           maxPrice,
		CurrentPrice:       current.Price,
		CurrentFormatted:   current.Formatted,
		CurrentDiscountPct: current.DiscountPct,
		Currency:           current.Currency,
	}, nil
}

// Trend reports the percentage change from the oldest to the most recent
// record. Records must be sorted most-recent-first. ok is false when there
// are fewer than two records or the oldest price is zero.
func Trend(records []PriceRecord) (decimal.Decimal, bool) {
	if len(records) < 2 {
		return decimal.Decimal{}, false
	}
	newest := records[0].Price
	oldest := records[len(records)-1].Price
	if oldest.IsZero() {
		return decimal.Decimal{}, false
	}
	hundred := decimal.NewFromInt(100)
	return newest.Sub(oldest).Div(oldest).Mul(hundred), true
}
