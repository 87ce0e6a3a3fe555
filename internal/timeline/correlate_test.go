package timeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func window(start, end time.Time) OfferWindow {
	return OfferWindow{Start: start, End: end, Price: decimal.NewFromInt(100)}
}

func event(name string, start, end time.Time, status SaleStatus) SaleEvent {
	return SaleEvent{Name: name, Start: start, End: end, Status: status}
}

func TestCorrelateNoOverlapLeavesLabelAbsent(t *testing.T) {
	windows := []OfferWindow{window(date(2024, time.March, 1), date(2024, time.March, 10))}
	cal := Calendar{Current: []SaleEvent{
		event("Summer Sale", date(2024, time.June, 1), date(2024, time.June, 14), SaleCurrent),
	}}

	out := Correlate(windows, cal)
	if out[0].EventLabel != "" {
		t.Fatalf("expected absent label, got %q", out[0].EventLabel)
	}
}

func TestCorrelateContainedWindowInheritsName(t *testing.T) {
	windows := []OfferWindow{window(date(2024, time.June, 3), date(2024, time.June, 10))}
	cal := Calendar{Current: []SaleEvent{
		event("Summer Sale", date(2024, time.June, 1), date(2024, time.June, 14), SaleCurrent),
	}}

	out := Correlate(windows, cal)
	if out[0].EventLabel != "Summer Sale" {
		t.Fatalf("expected Summer Sale, got %q", out[0].EventLabel)
	}
}

func TestCorrelateGreatestIntersectionWins(t *testing.T) {
	windows := []OfferWindow{window(date(2024, time.June, 1), date(2024, time.June, 20))}
	cal := Calendar{Current: []SaleEvent{
		event("Short Event", date(2024, time.June, 18), date(2024, time.June, 25), SaleCurrent),
		event("Long Event", date(2024, time.June, 1), date(2024, time.June, 15), SaleCurrent),
	}}

	out := Correlate(windows, cal)
	if out[0].EventLabel != "Long Event" {
		t.Fatalf("expected Long Event (largest overlap), got %q", out[0].EventLabel)
	}
}

func TestCorrelateTieBreaksOnLaterStart(t *testing.T) {
	windows := []OfferWindow{window(date(2024, time.June, 5), date(2024, time.June, 10))}
	cal := Calendar{Current: []SaleEvent{
		event("Earlier", date(2024, time.June, 1), date(2024, time.June, 30), SaleCurrent),
		event("Later", date(2024, time.June, 3), date(2024, time.June, 30), SaleCurrent),
	}}

	out := Correlate(windows, cal)
	if out[0].EventLabel != "Later" {
		t.Fatalf("expected later-starting event on tie, got %q", out[0].EventLabel)
	}
}

func TestCorrelateCurrentPartitionWins(t *testing.T) {
	windows := []OfferWindow{window(date(2024, time.June, 5), date(2024, time.June, 10))}
	cal := Calendar{
		Current: []SaleEvent{
			event("Current Sale", date(2024, time.June, 9), date(2024, time.June, 12), SaleCurrent),
		},
		Upcoming: []SaleEvent{
			event("Upcoming Sale", date(2024, time.June, 1), date(2024, time.June, 30), SaleUpcoming),
		},
	}

	out := Correlate(windows, cal)
	if out[0].EventLabel != "Current Sale" {
		t.Fatalf("current partition should be consulted first, got %q", out[0].EventLabel)
	}
}

func TestCorrelateKeepsSourceAnnotations(t *testing.T) {
	w := window(date(2024, time.June, 5), date(2024, time.June, 10))
	w.EventLabel = "Publisher Week"
	cal := Calendar{Current: []SaleEvent{
		event("Summer Sale", date(2024, time.June, 1), date(2024, time.June, 14), SaleCurrent),
	}}

	out := Correlate([]OfferWindow{w}, cal)
	if out[0].EventLabel != "Publisher Week" {
		t.Fatalf("existing annotation should survive, got %q", out[0].EventLabel)
	}
}

func TestCorrelateDoesNotMutateInput(t *testing.T) {
	windows := []OfferWindow{window(date(2024, time.June, 3), date(2024, time.June, 10))}
	cal := Calendar{Current: []SaleEvent{
		event("Summer Sale", date(2024, time.June, 1), date(2024, time.June, 14), SaleCurrent),
	}}

	Correlate(windows, cal)
	if windows[0].EventLabel != "" {
		t.Fatal("input slice was mutated")
	}
}

func TestParseCalendarPartitions(t *testing.T) {
	raw := RawCalendar{
		Success: true,
		CurrentSales: []RawSale{
			{Name: "Summer Sale", Start: "2024-06-27", End: "2024-07-11"},
			{Name: "", Start: "2024-06-27"},
		},
		UpcomingSales: []RawSale{
			{Name: "Autumn Sale", Date: "2024-11-27"},
			{Name: "Mystery Fest", Date: "soon"},
		},
	}

	cal, skipped := ParseCalendar(raw)
	if len(cal.Current) != 1 || len(cal.Upcoming) != 1 {
		t.Fatalf("expected one event per partition, got %d/%d", len(cal.Current), len(cal.Upcoming))
	}
	if skipped != 2 {
		t.Fatalf("expected 2 skipped rows, got %d", skipped)
	}
	if !cal.Upcoming[0].Start.Equal(cal.Upcoming[0].End) {
		t.Fatal("single-date upcoming sale should collapse to start == end")
	}
	if cal.Current[0].Status != SaleCurrent || cal.Upcoming[0].Status != SaleUpcoming {
		t.Fatal("partition status not preserved")
	}
}
