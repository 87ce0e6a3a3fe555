package display

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dealscope/internal/timeline"
)

func testWindows(n int) []timeline.OfferWindow {
	windows := make([]timeline.OfferWindow, n)
	day := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	for i := range windows {
		start := day.AddDate(0, 0, -i*10-5)
		end := day.AddDate(0, 0, -i*10)
		windows[i] = timeline.OfferWindow{
			Start:       start,
			End:         end,
			Price:       decimal.NewFromInt(int64(1000 + i)),
			Currency:    "$",
			DiscountPct: 25,
		}
	}
	return windows
}

func TestPaginateRespectsBudget(t *testing.T) {
	opts := Options{ChunkBudget: 120, MaxChunks: 50}
	result := Paginate(testWindows(20), opts)

	if len(result.Chunks) == 0 {
		t.Fatal("expected at least one chunk")
	}
	for i, chunk := range result.Chunks {
		if len(chunk) > opts.ChunkBudget {
			t.Fatalf("chunk %d exceeds budget: %d > %d", i, len(chunk), opts.ChunkBudget)
		}
	}
	if result.Omitted != 0 {
		t.Fatalf("nothing should be omitted with %d chunks allowed, got %d", opts.MaxChunks, result.Omitted)
	}
}

func TestPaginatePreservesOrderAndWholeLines(t *testing.T) {
	windows := testWindows(15)
	result := Paginate(windows, Options{ChunkBudget: 200, MaxChunks: 50})

	joined := strings.Join(result.Chunks, "\n")
	lines := strings.Split(joined, "\n")
	if len(lines) != len(windows) {
		t.Fatalf("expected %d rendered lines, got %d", len(windows), len(lines))
	}
	for i, w := range windows {
		if lines[i] != RenderOffer(i+1, w) {
			t.Fatalf("line %d split or reordered: %q", i, lines[i])
		}
	}
}

func TestPaginateTruncatesOldestWithNote(t *testing.T) {
	windows := testWindows(30)
	result := Paginate(windows, Options{ChunkBudget: 150, MaxChunks: 2})

	if result.Omitted == 0 {
		t.Fatal("expected truncation with a tight chunk budget")
	}
	if len(result.Chunks) > 2 {
		t.Fatalf("chunk count %d exceeds the maximum of 2", len(result.Chunks))
	}

	last := result.Chunks[len(result.Chunks)-1]
	note := fmt.Sprintf("(+%d older offers omitted)", result.Omitted)
	if !strings.Contains(last, note) {
		t.Fatalf("last chunk should carry the omitted note %q, got %q", note, last)
	}
	for i, chunk := range result.Chunks {
		if len(chunk) > 150 {
			t.Fatalf("chunk %d exceeds budget after note insertion", i)
		}
	}

	// The retained lines must be the most recent ones, in order.
	joined := strings.Join(result.Chunks, "\n")
	kept := len(windows) - result.Omitted
	for i := 0; i < kept; i++ {
		if !strings.Contains(joined, RenderOffer(i+1, windows[i])) {
			t.Fatalf("recent offer %d missing after truncation", i+1)
		}
	}
}

func TestPaginateEmptyInput(t *testing.T) {
	result := Paginate(nil, Options{ChunkBudget: 100, MaxChunks: 5})
	if len(result.Chunks) != 0 || result.Omitted != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
}

func TestRenderOfferIncludesDiscountAndEvent(t *testing.T) {
	w := timeline.OfferWindow{
		Start:       time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, time.December, 15, 0, 0, 0, 0, time.UTC),
		Price:       decimal.NewFromInt(13499),
		Currency:    "ARS$",
		DiscountPct: 50,
		EventLabel:  "Winter Sale",
	}

	line := RenderOffer(1, w)
	for _, want := range []string{"01/12/2024", "15/12/2024", "(-50%)", "[Winter Sale]"} {
		if !strings.Contains(line, want) {
			t.Fatalf("rendered line missing %q: %q", want, line)
		}
	}
}

func TestRecommendationLowestEver(t *testing.T) {
	stats := timeline.Statistics{
		CurrentDiscountPct: 50,
		CurrentPrice:       decimal.NewFromInt(100),
		MinPrice:           decimal.NewFromInt(100),
		Currency:           "$",
	}
	if got := Recommendation(stats); !strings.Contains(got, "lowest recorded price") {
		t.Fatalf("expected lowest-price verdict, got %q", got)
	}

	stats.CurrentPrice = decimal.NewFromInt(150)
	if got := Recommendation(stats); !strings.Contains(got, "recorded low was") {
		t.Fatalf("expected gap-to-low verdict, got %q", got)
	}

	stats.CurrentDiscountPct = 0
	if got := Recommendation(stats); !strings.Contains(got, "No active discount") {
		t.Fatalf("expected no-discount verdict, got %q", got)
	}
}
