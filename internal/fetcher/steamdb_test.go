package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func noopLogger() zerolog.Logger {
	return zerolog.Nop()
}

func TestFetchPriceHistorySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "1627720" {
			t.Fatalf("unexpected appid: %s", r.URL.Query().Get("appid"))
		}
		if r.URL.Query().Get("cc") != "ar" {
			t.Fatalf("unexpected cc: %s", r.URL.Query().Get("cc"))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"game_name": "Lies of P",
			"data": map[string]any{
				"history": []map[string]any{
					{"x": 1733011200000, "y": 13499.0, "f": "ARS$ 13.499", "d": 50},
					{"x": 1732060800000, "y": 15999.0, "f": "ARS$ 15.999", "d": 40},
				},
				"sales": map[string]string{
					"1733011200000": "Winter Sale",
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second, UserAgent: "test"}, noopLogger())

	got, err := c.FetchPriceHistory(context.Background(), "1627720", "ar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.History.GameName != "Lies of P" {
		t.Fatalf("game name = %q", got.History.GameName)
	}
	if len(got.History.Observations) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(got.History.Observations))
	}

	first := got.History.Observations[0]
	if first.Date != "1733011200000" {
		t.Fatalf("date should pass through as millisecond text, got %q", first.Date)
	}
	if first.Event != "Winter Sale" {
		t.Fatalf("event annotation not attached: %+v", first)
	}
	if first.Discount == nil || *first.Discount != 50 {
		t.Fatalf("discount not carried: %+v", first)
	}
	if len(got.Raw) == 0 {
		t.Fatal("raw payload must be retained for the export artifact")
	}
}

func TestFetchPriceHistoryFailureFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.FetchPriceHistory(context.Background(), "42", "us"); err == nil {
		t.Fatal("success=false should be an error")
	}
}

func TestFetchPriceHistoryHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "blocked"})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	if _, err := c.FetchPriceHistory(context.Background(), "42", "us"); err == nil {
		t.Fatal("HTTP 403 should be an error")
	}
}

func TestFetchSalesCalendar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"current_sales": []map[string]string{
				{"name": "Summer Sale", "start": "2024-06-27", "end": "2024-07-11"},
			},
			"upcoming_sales": []map[string]string{
				{"name": "Autumn Sale", "date": "2024-11-27"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Timeout: time.Second}, noopLogger())
	cal, err := c.FetchSalesCalendar(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cal.CurrentSales) != 1 || len(cal.UpcomingSales) != 1 {
		t.Fatalf("unexpected partitions: %+v", cal)
	}
	if cal.CurrentSales[0].Name != "Summer Sale" || cal.UpcomingSales[0].Date != "2024-11-27" {
		t.Fatalf("rows not mapped: %+v", cal)
	}
}

func TestExtractAppID(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://store.steampowered.com/app/1627720/Lies_of_P/", "1627720", false},
		{"https://steamdb.info/app/2651280/", "2651280", false},
		{"1627720", "1627720", false},
		{"https://example.com/app/1", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ExtractAppID(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ExtractAppID(%q) should fail", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ExtractAppID(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ExtractAppID(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
