package app

import (
	"errors"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"dealscope/internal/timeline"
)

// writeWindowsPNG renders the reconstructed offer timeline as a step chart:
// each window contributes its boundary dates at the window's price, with the
// discount on a secondary axis.
func writeWindowsPNG(path string, windows []timeline.OfferWindow) error {
	if len(windows) == 0 {
		return errors.New("no offer windows to chart")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	// Windows arrive most-recent-first; the chart wants ascending time.
	x := make([]time.Time, 0, len(windows)*2)
	price := make([]float64, 0, len(windows)*2)
	discount := make([]float64, 0, len(windows)*2)

	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		p := w.Price.InexactFloat64()
		d := float64(w.DiscountPct)
		x = append(x, w.Start, w.End)
		price = append(price, p, p)
		discount = append(discount, d, d)
	}

	// go-chart refuses a zero-width x range; pad a lone sample out a day.
	if x[0].Equal(x[len(x)-1]) {
		x = append(x, x[len(x)-1].Add(24*time.Hour))
		price = append(price, price[len(price)-1])
		discount = append(discount, discount[len(discount)-1])
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Price",
			ValueFormatter: priceFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Discount (%)",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Price",
				XValues: x,
				YValues: price,
			},
			chart.TimeSeries{
				Name:    "Discount %",
				XValues: x,
				YValues: discount,
				YAxis:   chart.YAxisSecondary,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}
