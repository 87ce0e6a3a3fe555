package timeline

import "time"

// Correlate attaches sale-event names to windows whose date range intersects
// a calendar event. Labels already carried by a window (source annotations)
// are kept. The current partition is consulted before the upcoming one; within
// a partition the event with the greatest intersection wins, ties going to the
// event with the later start. Windows with no overlapping event keep an empty
// label. The input is not mutated.
func Correlate(windows []OfferWindow, cal Calendar) []OfferWindow {
	if len(windows) == 0 {
		return nil
	}

	out := make([]OfferWindow, len(windows))
	copy(out, windows)

	for i := range out {
		if out[i].EventLabel != "" {
			continue
		}
		if ev, ok := bestOverlap(out[i], cal.Current); ok {
			out[i].EventLabel = ev.Name
			continue
		}
		if ev, ok := bestOverlap(out[i], cal.Upcoming); ok {
			out[i].EventLabel = ev.Name
		}
	}

	return out
}

func bestOverlap(w OfferWindow, events []SaleEvent) (SaleEvent, bool) {
	var best SaleEvent
	bestSpan := time.Duration(-1)
	found := false

	for _, ev := range events {
		span, ok := intersection(w.Start, w.End, ev.Start, ev.End)
		if !ok {
			continue
		}
		if span > bestSpan || (span == bestSpan && ev.Start.After(best.Start)) {
			best = ev
			bestSpan = span
			found = true
		}
	}

	return best, found
}

// intersection measures the overlap between two inclusive date ranges.
// Ranges that merely touch on a shared day still count as overlapping.
func intersection(aStart, aEnd, bStart, bEnd time.Time) (time.Duration, bool) {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if end.Before(start) {
		return 0, false
	}
	return end.Sub(start), true
}
