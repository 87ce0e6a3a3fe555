package fetcher

import (
	"context"
	"encoding/json"

	"dealscope/internal/timeline"
)

// PriceHistory bundles the normalised observations with the raw payload as
// fetched, which travels unmodified into the export artifact.
type PriceHistory struct {
	History timeline.RawHistory
	Raw     json.RawMessage
}

// PriceHistoryFetcher retrieves a title's raw price-history payload.
type PriceHistoryFetcher interface {
	FetchPriceHistory(ctx context.Context, appID, country string) (PriceHistory, error)
}

// SalesCalendarFetcher retrieves the platform-wide sales calendar, already
// partitioned into current and upcoming sales.
type SalesCalendarFetcher interface {
	FetchSalesCalendar(ctx context.Context) (timeline.RawCalendar, error)
}
