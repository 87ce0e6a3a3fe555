package export

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"dealscope/internal/timeline"
)

const dateFormat = "02/01/2006"

// Artifact is the machine-readable export of one reconstruction. Field names
// and nesting are a compatibility contract for downstream consumers; the
// structure is read-only once built.
type Artifact struct {
	AppID      string             `json:"appid"`
	Country    string             `json:"country"`
	Statistics ArtifactStatistics `json:"statistics"`
	SteamSales ArtifactSales      `json:"steam_sales"`
	Offers     []ArtifactOffer    `json:"offers"`
	RawData    json.RawMessage    `json:"raw_data"`
}

// ArtifactStatistics mirrors the computed statistics. total_records carries
// the raw observation count.
type ArtifactStatistics struct {
	TotalRecords    int             `json:"total_records"`
	MinPrice        decimal.Decimal `json:"min_price"`
	MaxPrice        decimal.Decimal `json:"max_price"`
	CurrentPrice    decimal.Decimal `json:"current_price"`
	CurrentDiscount int             `json:"current_discount"`
	Currency        string          `json:"currency"`
}

// ArtifactSales carries both calendar partitions unchanged.
type ArtifactSales struct {
	Success          bool           `json:"success"`
	CurrentSales     []ArtifactSale `json:"current_sales"`
	UpcomingSales    []ArtifactSale `json:"upcoming_sales"`
	HasCurrentSales  bool           `json:"has_current_sales"`
	HasUpcomingSales bool           `json:"has_upcoming_sales"`
}

// ArtifactSale is one calendar row. Current sales carry start/end; upcoming
// sales a single date.
type ArtifactSale struct {
	Name  string `json:"name"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Date  string `json:"date,omitempty"`
}

// ArtifactOffer is one reconstructed offer window.
type ArtifactOffer struct {
	Date           string          `json:"date"`
	DateEnd        string          `json:"date_end"`
	Price          decimal.Decimal `json:"price"`
	PriceFormatted string          `json:"price_formatted"`
	Discount       int             `json:"discount"`
	Event          string          `json:"event"`
	IsDiscount     bool            `json:"is_discount"`
}

// BuildArtifact assembles the export structure from the pipeline outputs.
func BuildArtifact(appID, country string, stats timeline.Statistics, windows []timeline.OfferWindow, cal timeline.Calendar, rawData json.RawMessage) Artifact {
	offers := make([]ArtifactOffer, 0, len(windows))
	for _, w := range windows {
		offers = append(offers, ArtifactOffer{
			Date:           w.Start.Format(dateFormat),
			DateEnd:        w.End.Format(dateFormat),
			Price:          w.Price,
			PriceFormatted: w.Formatted,
			Discount:       w.DiscountPct,
			Event:          w.EventLabel,
			IsDiscount:     w.IsDiscount(),
		})
	}

	return Artifact{
		AppID:   appID,
		Country: country,
		Statistics: ArtifactStatistics{
			TotalRecords:    stats.TotalRecords,
			MinPrice:        stats.MinPrice,
			MaxPrice:        stats.MaxPrice,
			CurrentPrice:    stats.CurrentPrice,
			CurrentDiscount: stats.CurrentDiscountPct,
			Currency:        stats.Currency,
		},
		SteamSales: ArtifactSales{
			Success:          true,
			CurrentSales:     saleRows(cal.Current),
			UpcomingSales:    saleRows(cal.Upcoming),
			HasCurrentSales:  cal.HasCurrent(),
			HasUpcomingSales: cal.HasUpcoming(),
		},
		Offers:  offers,
		RawData: rawData,
	}
}

func saleRows(events []timeline.SaleEvent) []ArtifactSale {
	rows := make([]ArtifactSale, 0, len(events))
	for _, ev := range events {
		row := ArtifactSale{Name: ev.Name}
		if ev.Status == timeline.SaleUpcoming && ev.Start.Equal(ev.End) {
			row.Date = ev.Start.Format(dateFormat)
		} else {
			row.Start = ev.Start.Format(dateFormat)
			row.End = ev.End.Format(dateFormat)
		}
		rows = append(rows, row)
	}
	return rows
}
