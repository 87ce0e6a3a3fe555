package timeline

import (
	"strings"
	"time"
)

// SaleStatus distinguishes the calendar partitions. The classification is
// passed through for display; correlation only looks at date ranges.
type SaleStatus string

const (
	SaleCurrent  SaleStatus = "current"
	SaleUpcoming SaleStatus = "upcoming"
)

// SaleEvent is a named, dated platform-wide promotional period, sourced
// independently of per-title price history.
type SaleEvent struct {
	Name   string
	Start  time.Time
	End    time.Time
	Status SaleStatus
}

// Calendar holds the two calendar partitions as fetched.
type Calendar struct {
	Current  []SaleEvent
	Upcoming []SaleEvent
}

// HasCurrent reports whether any current sale events were parsed.
func (c Calendar) HasCurrent() bool { return len(c.Current) > 0 }

// HasUpcoming reports whether any upcoming sale events were parsed.
func (c Calendar) HasUpcoming() bool { return len(c.Upcoming) > 0 }

// RawSale is one loosely-typed calendar row. Current sales carry Start/End;
// upcoming sales are often announced with a single Date.
type RawSale struct {
	Name  string
	Start string
	End   string
	Date  string
}

// RawCalendar is the fetch collaborator's sales-calendar payload, already
// partitioned into current and upcoming sales.
type RawCalendar struct {
	Success       bool
	CurrentSales  []RawSale
	UpcomingSales []RawSale
}

var calendarLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2 January 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseCalendar validates raw calendar rows into sale events, keeping the
// partitions independent. Rows with no name or no parseable date are dropped
// and counted in skipped.
func ParseCalendar(raw RawCalendar) (Calendar, int) {
	var cal Calendar
	skipped := 0

	for _, rs := range raw.CurrentSales {
		ev, ok := parseSale(rs, SaleCurrent)
		if !ok {
			skipped++
			continue
		}
		cal.Current = append(cal.Current, ev)
	}
	for _, rs := range raw.UpcomingSales {
		ev, ok := parseSale(rs, SaleUpcoming)
		if !ok {
			skipped++
			continue
		}
		cal.Upcoming = append(cal.Upcoming, ev)
	}

	return cal, skipped
}

func parseSale(rs RawSale, status SaleStatus) (SaleEvent, bool) {
	name := strings.TrimSpace(rs.Name)
	if name == "" {
		return SaleEvent{}, false
	}

	startText := rs.Start
	if startText == "" {
		startText = rs.Date
	}
	start, ok := parseCalendarDate(startText)
	if !ok {
		return SaleEvent{}, false
	}

	end := start
	if rs.End != "" {
		if parsed, ok := parseCalendarDate(rs.End); ok {
			end = parsed
		}
	}
	if end.Before(start) {
		start, end = end, start
	}

	return SaleEvent{Name: name, Start: start, End: end, Status: status}, true
}

func parseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t.UTC()), true
		}
	}
	return time.Time{}, false
}
