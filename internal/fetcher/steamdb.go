package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"dealscope/internal/timeline"
)

const (
	priceHistoryPath  = "/api/GetPriceHistory/"
	salesCalendarPath = "/api/GetSalesCalendar/"
)

// Options parameterise the SteamDB client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client fetches price history and the sales calendar from the SteamDB JSON
// endpoints. Anti-automation countermeasures on the source side are out of
// scope; callers needing them sit behind the same interfaces.
type Client struct {
	opts    Options
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewClient constructs a SteamDB client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://steamdb.info"
	}

	return &Client{
		opts:    opts,
		logger:  logger.With().Str("component", "steamdb_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type historyResponse struct {
	Success  bool   `json:"success"`
	GameName string `json:"game_name"`
	Data     struct {
		History []struct {
			X int64   `json:"x"`
			Y float64 `json:"y"`
			F string  `json:"f"`
			D int     `json:"d"`
		} `json:"history"`
		Sales map[string]string `json:"sales"`
	} `json:"data"`
}

// FetchPriceHistory retrieves the raw price history for one title and
// country. Observations come back as loosely-typed tuples; all validation
// happens at the parse boundary downstream.
func (c *Client) FetchPriceHistory(ctx context.Context, appID, country string) (PriceHistory, error) {
	if appID == "" {
		return PriceHistory{}, errors.New("app id is required")
	}

	endpoint := fmt.Sprintf("%s%s?appid=%s&cc=%s", c.baseURL, priceHistoryPath, url.QueryEscape(appID), url.QueryEscape(country))
	payload, err := c.get(ctx, endpoint)
	if err != nil {
		return PriceHistory{}, err
	}

	var res historyResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return PriceHistory{}, fmt.Errorf("decode price history: %w", err)
	}
	if !res.Success {
		return PriceHistory{}, fmt.Errorf("steamdb reported failure for appid %s", appID)
	}

	history := timeline.RawHistory{
		Success:      res.Success,
		GameName:     res.GameName,
		Observations: make([]timeline.RawObservation, 0, len(res.Data.History)),
	}
	for _, point := range res.Data.History {
		discount := point.D
		key := strconv.FormatInt(point.X, 10)
		history.Observations = append(history.Observations, timeline.RawObservation{
			Date:      key,
			Price:     strconv.FormatFloat(point.Y, 'f', -1, 64),
			Formatted: point.F,
			Discount:  &discount,
			Event:     res.Data.Sales[key],
		})
	}

	c.logger.Debug().Str("appid", appID).Str("cc", country).
		Int("observations", len(history.Observations)).
		Msg("price history fetched")

	return PriceHistory{History: history, Raw: payload}, nil
}

type calendarResponse struct {
	Success      bool `json:"success"`
	CurrentSales []struct {
		Name  string `json:"name"`
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"current_sales"`
	UpcomingSales []struct {
		Name string `json:"name"`
		Date string `json:"date"`
	} `json:"upcoming_sales"`
}

// FetchSalesCalendar retrieves the partitioned sales calendar.
func (c *Client) FetchSalesCalendar(ctx context.Context) (timeline.RawCalendar, error) {
	payload, err := c.get(ctx, c.baseURL+salesCalendarPath)
	if err != nil {
		return timeline.RawCalendar{}, err
	}

	var res calendarResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return timeline.RawCalendar{}, fmt.Errorf("decode sales calendar: %w", err)
	}
	if !res.Success {
		return timeline.RawCalendar{}, errors.New("steamdb reported failure for sales calendar")
	}

	cal := timeline.RawCalendar{Success: true}
	for _, row := range res.CurrentSales {
		cal.CurrentSales = append(cal.CurrentSales, timeline.RawSale{Name: row.Name, Start: row.Start, End: row.End})
	}
	for _, row := range res.UpcomingSales {
		cal.UpcomingSales = append(cal.UpcomingSales, timeline.RawSale{Name: row.Name, Date: row.Date})
	}

	c.logger.Debug().Int("current", len(cal.CurrentSales)).
		Int("upcoming", len(cal.UpcomingSales)).
		Msg("sales calendar fetched")

	return cal, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "dealscope/1.0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}

	return payload, nil
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description"`
	Message     string `json:"message"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil {
		if apiErr.Description != "" {
			return fmt.Errorf("steamdb api error (%d): %s", status, apiErr.Description)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("steamdb api error (%d): %s", status, apiErr.Message)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("steamdb api error (%d): %s", status, apiErr.Error)
		}
	}
	if len(payload) > 0 {
		return fmt.Errorf("steamdb api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("steamdb api error (%d)", status)
}

var (
	storeURLPattern   = regexp.MustCompile(`store\.steampowered\.com/app/(\d+)`)
	steamdbURLPattern = regexp.MustCompile(`steamdb\.info/app/(\d+)`)
)

// ExtractAppID pulls the Steam app id out of a store or SteamDB URL; a bare
// numeric id is accepted as-is.
func ExtractAppID(target string) (string, error) {
	target = strings.TrimSpace(target)
	if m := storeURLPattern.FindStringSubmatch(target); m != nil {
		return m[1], nil
	}
	if m := steamdbURLPattern.FindStringSubmatch(target); m != nil {
		return m[1], nil
	}
	if target != "" && isNumeric(target) {
		return target, nil
	}
	return "", fmt.Errorf("cannot extract app id from %q", target)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var _ PriceHistoryFetcher = (*Client)(nil)
var _ SalesCalendarFetcher = (*Client)(nil)
