package timeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferWindow is a contiguous date range during which a title's price and
// discount were constant, as reconstructed from sparse observations.
// Invariant: Start <= End.
type OfferWindow struct {
	Start       time.Time
	End         time.Time
	Price       decimal.Decimal
	Formatted   string
	DiscountPct int
	Currency    string
	EventLabel  string
}

// IsDiscount reports whether the window represents a discounted offer.
func (w OfferWindow) IsDiscount() bool { return w.DiscountPct > 0 }

// BuildWindows merges consecutive records with an identical
// (price, discount, currency) tuple into offer windows. Records must be
// sorted most-recent-first; the result is sorted by descending End. A window
// spans from the earliest matching record to the most recent one, so a single
// isolated record yields Start == End. Equality is exact: numerically close
// prices never coalesce.
func BuildWindows(records []PriceRecord) []OfferWindow {
	if len(records) == 0 {
		return nil
	}

	windows := make([]OfferWindow, 0, len(records))
	current := newWindow(records[0])

	for _, rec := range records[1:] {
		if sameOffer(current, rec) {
			current.Start = rec.ObservedAt
			if current.EventLabel == "" {
				current.EventLabel = rec.Event
			}
			continue
		}
		windows = append(windows, current)
		current = newWindow(rec)
	}
	windows = append(windows, current)

	return windows
}

func newWindow(rec PriceRecord) OfferWindow {
	return OfferWindow{
		Start:       rec.ObservedAt,
		End:         rec.ObservedAt,
		Price:       rec.Price,
		Formatted:   rec.Formatted,
		DiscountPct: rec.DiscountPct,
		Currency:    rec.Currency,
		EventLabel:  rec.Event,
	}
}

func sameOffer(w OfferWindow, rec PriceRecord) bool {
	return w.Price.Equal(rec.Price) &&
		w.DiscountPct == rec.DiscountPct &&
		w.Currency == rec.Currency
}
