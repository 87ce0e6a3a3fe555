package display

import (
	"fmt"
	"strings"
	"time"

	"dealscope/internal/timeline"
)

const dateFormat = "02/01/2006"

// Options bound the paginated rendering: a hard character budget per chunk
// and a hard chunk count per response.
type Options struct {
	ChunkBudget int
	MaxChunks   int
}

// Result carries the rendered chunks plus truncation metadata. Omitted is
// informational, not an error: when the offers outgrow the total budget the
// oldest ones are dropped.
type Result struct {
	Chunks  []string
	Omitted int
}

// RenderOffer formats a single offer window as one display line.
func RenderOffer(position int, w timeline.OfferWindow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s -> %s  %s", position, w.Start.Format(dateFormat), w.End.Format(dateFormat), priceLabel(w))
	if w.DiscountPct > 0 {
		fmt.Fprintf(&b, " (-%d%%)", w.DiscountPct)
	}
	if w.EventLabel != "" {
		fmt.Fprintf(&b, " [%s]", w.EventLabel)
	}
	return b.String()
}

func priceLabel(w timeline.OfferWindow) string {
	if w.Formatted != "" {
		return w.Formatted
	}
	return w.Currency + " " + w.Price.StringFixed(2)
}

// Paginate renders the windows most-recent-first into chunks that each stay
// at or under the character budget. An offer line is never split across two
// chunks; a line longer than the budget is clipped. When the content exceeds
// budget x max chunks, the oldest offers are dropped and an omitted-count
// note is folded into the final chunk.
func Paginate(windows []timeline.OfferWindow, opts Options) Result {
	if len(windows) == 0 || opts.ChunkBudget <= 0 || opts.MaxChunks <= 0 {
		return Result{}
	}

	lines := make([]string, len(windows))
	for i, w := range windows {
		line := RenderOffer(i+1, w)
		if len(line) > opts.ChunkBudget {
			line = line[:opts.ChunkBudget]
		}
		lines[i] = line
	}

	var chunks []string
	current := ""
	omitted := 0

	for i, line := range lines {
		switch {
		case current == "":
			current = line
		case len(current)+1+len(line) <= opts.ChunkBudget:
			current += "\n" + line
		default:
			chunks = append(chunks, current)
			current = line
			if len(chunks) == opts.MaxChunks {
				omitted = len(lines) - i
				current = ""
			}
		}
		if omitted > 0 {
			break
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}

	if omitted > 0 {
		chunks = appendOmittedNote(chunks, opts.ChunkBudget, &omitted)
	}

	return Result{Chunks: chunks, Omitted: omitted}
}

// appendOmittedNote folds the truncation note into the last chunk, evicting
// further old lines from it until the note fits within the budget.
func appendOmittedNote(chunks []string, budget int, omitted *int) []string {
	last := chunks[len(chunks)-1]
	for {
		note := fmt.Sprintf("(+%d older offers omitted)", *omitted)
		candidate := note
		if last != "" {
			candidate = last + "\n" + note
		}
		if len(candidate) <= budget {
			chunks[len(chunks)-1] = candidate
			return chunks
		}
		idx := strings.LastIndexByte(last, '\n')
		if idx < 0 {
			if last != "" {
				*omitted++
			}
			if len(note) > budget {
				note = note[:budget]
			}
			chunks[len(chunks)-1] = note
			return chunks
		}
		last = last[:idx]
		*omitted++
	}
}

// Recommendation phrases a buy verdict from the statistics, mirroring the
// advice shown alongside the offer history.
func Recommendation(stats timeline.Statistics) string {
	if stats.CurrentDiscountPct > 0 {
		if stats.CurrentPrice.LessThanOrEqual(stats.MinPrice) {
			return fmt.Sprintf("Active %d%% discount at the lowest recorded price. Good time to buy.", stats.CurrentDiscountPct)
		}
		gap := stats.CurrentPrice.Sub(stats.MinPrice)
		return fmt.Sprintf("Active %d%% discount, but the recorded low was %s %s (%s %s below the current price).",
			stats.CurrentDiscountPct, stats.Currency, stats.MinPrice.StringFixed(2), stats.Currency, gap.StringFixed(2))
	}
	return fmt.Sprintf("No active discount. The recorded low is %s %s.", stats.Currency, stats.MinPrice.StringFixed(2))
}

// FormatDate renders a date the way offer lines do.
func FormatDate(t time.Time) string { return t.Format(dateFormat) }
