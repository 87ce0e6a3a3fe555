package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"dealscope/internal/display"
	"dealscope/internal/fetcher"
	"dealscope/internal/service"
)

// Analyze reconstructs a title's offer history and prints it.
func (a *App) Analyze(ctx context.Context, opts AnalyzeOptions) error {
	appID, err := fetcher.ExtractAppID(opts.Target)
	if err != nil {
		return err
	}
	country := a.resolveCountry(opts.Country)

	result, err := a.newService().Analyze(ctx, appID, country)
	if err != nil {
		return err
	}

	printResult(result)
	return nil
}

func printResult(result *service.Result) {
	title := result.GameName
	if title == "" {
		title = "App ID " + result.AppID
	}
	fmt.Fprintf(os.Stdout, "%s (%s)\n\n", title, result.Country)

	if !result.HasStatistics {
		// Zero valid windows must be reported explicitly, never as zeros
		// that could pass for real prices.
		if result.SkippedRecords > 0 {
			fmt.Fprintf(os.Stdout, "No usable price records: all %d observations were skipped as unparseable.\n", result.SkippedRecords)
		} else {
			fmt.Fprintln(os.Stdout, "No price records found for this title.")
		}
		return
	}

	stats := result.Statistics
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Current price\t%s", stats.CurrentFormatted)
	if stats.CurrentDiscountPct > 0 {
		fmt.Fprintf(writer, " (-%d%%)", stats.CurrentDiscountPct)
	}
	fmt.Fprintln(writer)
	fmt.Fprintf(writer, "Lowest recorded\t%s %s\n", stats.Currency, stats.MinPrice.StringFixed(2))
	fmt.Fprintf(writer, "Highest recorded\t%s %s\n", stats.Currency, stats.MaxPrice.StringFixed(2))
	fmt.Fprintf(writer, "Observations\t%d (%d offer windows)\n", stats.TotalRecords, stats.TotalWindows)
	if result.SkippedRecords > 0 {
		fmt.Fprintf(writer, "Skipped records\t%d\n", result.SkippedRecords)
	}
	if result.HasTrend {
		fmt.Fprintf(writer, "Trend since first record\t%s%%\n", result.TrendPct.StringFixed(1))
	}
	writer.Flush()

	if result.Calendar.HasCurrent() {
		fmt.Fprintln(os.Stdout, "\nCurrent sales:")
		for _, ev := range result.Calendar.Current {
			fmt.Fprintf(os.Stdout, "  %s  %s - %s\n", ev.Name, display.FormatDate(ev.Start), display.FormatDate(ev.End))
		}
	}
	if result.Calendar.HasUpcoming() {
		fmt.Fprintln(os.Stdout, "\nUpcoming sales:")
		for _, ev := range result.Calendar.Upcoming {
			fmt.Fprintf(os.Stdout, "  %s  %s\n", ev.Name, display.FormatDate(ev.Start))
		}
	}

	if len(result.Pages.Chunks) > 0 {
		fmt.Fprintln(os.Stdout, "\nOffer history:")
		for i, chunk := range result.Pages.Chunks {
			if i > 0 {
				fmt.Fprintln(os.Stdout, "  ---")
			}
			fmt.Fprintln(os.Stdout, chunk)
		}
	}

	fmt.Fprintf(os.Stdout, "\n%s\n", display.Recommendation(stats))
}
