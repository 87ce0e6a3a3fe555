package timeline

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrParse signals that the raw input as a whole was unusable. Individual
// bad observations are skipped and counted instead.
var ErrParse = errors.New("price history unparseable")

// RawObservation is one loosely-typed observation as delivered by a fetch
// source. Dates arrive either as unix-millisecond digit strings or as
// DD/MM/YYYY text; prices may carry currency symbols and grouping separators.
type RawObservation struct {
	Date      string
	Price     string
	Formatted string
	Discount  *int
	Currency  string
	Event     string
}

// RawHistory is the fetch collaborator's price-history payload.
type RawHistory struct {
	Success      bool
	GameName     string
	Observations []RawObservation
}

// PriceRecord is a validated, normalised observation. Immutable once parsed.
type PriceRecord struct {
	ObservedAt  time.Time
	Price       decimal.Decimal
	Formatted   string
	DiscountPct int
	Currency    string
	Event       string
}

// ParseRecords normalises raw observations into a deduplicated sequence of
// price records sorted most-recent-first. Observations with malformed dates
// or prices are dropped and counted in skipped. An empty input is fatal.
func ParseRecords(raw []RawObservation, fallbackCurrency string) ([]PriceRecord, int, error) {
	if len(raw) == 0 {
		return nil, 0, ErrParse
	}

	type entry struct {
		rec   PriceRecord
		score int
	}
	byDate := make(map[time.Time]entry, len(raw))
	skipped := 0

	for _, obs := range raw {
		observedAt, err := parseDate(obs.Date)
		if err != nil {
			skipped++
			continue
		}
		price, err := parsePrice(obs.Price)
		if err != nil {
			skipped++
			continue
		}

		rec := PriceRecord{
			ObservedAt: observedAt,
			Price:      price,
			Formatted:  obs.Formatted,
			Currency:   obs.Currency,
			Event:      obs.Event,
		}
		if rec.Currency == "" {
			rec.Currency = fallbackCurrency
		}
		if obs.Discount != nil {
			rec.DiscountPct = *obs.Discount
		}
		if rec.Formatted == "" {
			rec.Formatted = rec.Currency + " " + price.StringFixed(2)
		}

		// Duplicate dates keep the most complete entry; on equal
		// completeness the latest-seen observation wins.
		score := 0
		if obs.Discount != nil {
			score++
		}
		if obs.Event != "" {
			score++
		}
		if existing, ok := byDate[observedAt]; ok && existing.score > score {
			continue
		}
		byDate[observedAt] = entry{rec: rec, score: score}
	}

	records := make([]PriceRecord, 0, len(byDate))
	for _, e := range byDate {
		records = append(records, e.rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].ObservedAt.After(records[j].ObservedAt)
	})

	return records, skipped, nil
}

var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}

	if isDigits(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return dateOnly(time.UnixMilli(ms).UTC()), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t.UTC()), nil
		}
	}
	return time.Time{}, errors.New("unrecognised date format: " + s)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// parsePrice strips currency symbols and grouping separators before parsing.
// Both "1.349,99" and "1,349.99" styles are handled: when both separators
// appear the later one is the decimal mark; a lone separator followed by
// exactly three digits is treated as grouping.
func parsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '.' || r == ',' || r == '-':
			return r
		default:
			return -1
		}
	}, strings.TrimSpace(s))

	if cleaned == "" {
		return decimal.Decimal{}, errors.New("no numeric content in price: " + s)
	}

	lastDot := strings.LastIndexByte(cleaned, '.')
	lastComma := strings.LastIndexByte(cleaned, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		cleaned = normaliseSingleSeparator(cleaned, ',')
	case lastDot >= 0:
		cleaned = normaliseSingleSeparator(cleaned, '.')
	}

	return decimal.NewFromString(cleaned)
}

func normaliseSingleSeparator(s string, sep byte) string {
	first := strings.IndexByte(s, sep)
	last := strings.LastIndexByte(s, sep)
	if first != last || len(s)-last-1 == 3 {
		// Repeated separators, or exactly three trailing digits: grouping.
		return strings.ReplaceAll(s, string(sep), "")
	}
	if sep == ',' {
		return strings.Replace(s, ",", ".", 1)
	}
	return s
}

// CurrencySymbol maps a country code to the display currency label.
func CurrencySymbol(country string) string {
	switch strings.ToLower(country) {
	case "ar":
		return "ARS$"
	case "us":
		return "$"
	case "eu":
		return "€"
	case "gb":
		return "£"
	case "br":
		return "R$"
	default:
		return "$"
	}
}
