package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"dealscope/internal/display"
	"dealscope/internal/fetcher"
	"dealscope/internal/metrics"
	"dealscope/internal/timeline"
)

// Service runs the reconstruction pipeline for one title and country. The
// pipeline itself is pure and stateless; invocations for different titles
// are fully independent and may run in parallel.
type Service struct {
	history  fetcher.PriceHistoryFetcher
	calendar fetcher.SalesCalendarFetcher
	metrics  *metrics.Registry
	display  display.Options
	logger   zerolog.Logger
}

// New constructs the analysis service.
func New(history fetcher.PriceHistoryFetcher, calendar fetcher.SalesCalendarFetcher, reg *metrics.Registry, displayOpts display.Options, logger zerolog.Logger) *Service {
	return &Service{
		history:  history,
		calendar: calendar,
		metrics:  reg,
		display:  displayOpts,
		logger:   logger.With().Str("component", "service").Logger(),
	}
}

// Result is the full outcome of one reconstruction.
type Result struct {
	AppID    string
	Country  string
	GameName string

	Records []timeline.PriceRecord
	Windows []timeline.OfferWindow

	Statistics    timeline.Statistics
	HasStatistics bool

	Calendar timeline.Calendar
	Pages    display.Result

	SkippedRecords int
	SkippedSales   int

	TrendPct decimal.Decimal
	HasTrend bool

	RawHistory json.RawMessage
}

// Analyze fetches price history and the sales calendar concurrently, then
// runs the synchronous reconstruction: parse, window, correlate, summarise,
// paginate. A calendar fetch failure degrades to an empty calendar; a price
// history fetch failure aborts, since the engine then has nothing to run on.
func (s *Service) Analyze(ctx context.Context, appID, country string) (*Result, error) {
	var (
		hist    fetcher.PriceHistory
		histErr error
		rawCal  timeline.RawCalendar
		calErr  error
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		hist, histErr = s.history.FetchPriceHistory(ctx, appID, country)
	}()
	if s.calendar != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rawCal, calErr = s.calendar.FetchSalesCalendar(ctx)
		}()
	}
	wg.Wait()

	if histErr != nil {
		return nil, fmt.Errorf("fetch price history: %w", histErr)
	}
	if calErr != nil {
		s.logger.Warn().Err(calErr).Msg("sales calendar unavailable; correlating against an empty calendar")
		rawCal = timeline.RawCalendar{}
	}

	records, skipped, err := timeline.ParseRecords(hist.History.Observations, timeline.CurrencySymbol(country))
	if err != nil {
		return nil, fmt.Errorf("parse price history for appid %s: %w", appID, err)
	}
	if s.metrics != nil {
		s.metrics.RecordsParsed.Add(float64(len(records)))
		s.metrics.RecordsSkipped.Add(float64(skipped))
	}

	windows := timeline.BuildWindows(records)
	cal, skippedSales := timeline.ParseCalendar(rawCal)
	windows = timeline.Correlate(windows, cal)
	if s.metrics != nil {
		s.metrics.WindowsBuilt.Add(float64(len(windows)))
	}

	result := &Result{
		AppID:          appID,
		Country:        country,
		GameName:       hist.History.GameName,
		Records:        records,
		Windows:        windows,
		Calendar:       cal,
		SkippedRecords: skipped,
		SkippedSales:   skippedSales,
		RawHistory:     hist.Raw,
	}

	stats, err := timeline.ComputeStatistics(windows, len(records))
	if err == nil {
		result.Statistics = stats
		result.HasStatistics = true
	}

	if trend, ok := timeline.Trend(records); ok {
		result.TrendPct = trend
		result.HasTrend = true
	}

	result.Pages = display.Paginate(windows, s.display)

	s.logger.Info().Str("appid", appID).Str("cc", country).
		Int("records", len(records)).
		Int("skipped", skipped).
		Int("windows", len(windows)).
		Int("chunks", len(result.Pages.Chunks)).
		Msg("reconstruction complete")

	return result, nil
}
