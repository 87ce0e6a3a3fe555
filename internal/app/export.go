package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"dealscope/internal/export"
	"dealscope/internal/fetcher"
)

// Export reconstructs a title's offer history, stores the export artifact
// behind a single-use token bound to the requester, and optionally renders a
// PNG chart of the reconstructed timeline.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.Requester == "" {
		return errors.New("--requester is required")
	}

	appID, err := fetcher.ExtractAppID(opts.Target)
	if err != nil {
		return err
	}
	country := a.resolveCountry(opts.Country)

	result, err := a.newService().Analyze(ctx, appID, country)
	if err != nil {
		return err
	}
	if !result.HasStatistics {
		return fmt.Errorf("nothing to export: no usable price records (%d skipped)", result.SkippedRecords)
	}

	artifact := export.BuildArtifact(appID, country, result.Statistics, result.Windows, result.Calendar, result.RawHistory)

	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if swept, err := store.SweepExpired(); err != nil {
		a.Logger.Warn().Err(err).Msg("expiry sweep failed")
	} else if swept > 0 {
		a.Logger.Debug().Int("swept", swept).Msg("expired artifacts removed")
	}

	token, expiresAt, err := store.Issue(artifact, opts.Requester, a.Config.Export.TokenTTL)
	if err != nil {
		return err
	}
	a.Metrics.ArtifactsIssued.Inc()

	if opts.PNGPath != "" {
		if err := writeWindowsPNG(opts.PNGPath, result.Windows); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Chart written to %s\n", opts.PNGPath)
	}

	fmt.Fprintf(os.Stdout, "Token: %s\n", token)
	fmt.Fprintf(os.Stdout, "Expires: %s (in %s)\n", expiresAt.Format(time.RFC3339), time.Until(expiresAt).Round(time.Second))
	fmt.Fprintf(os.Stdout, "Redeem with: dealscope redeem --token %s --requester %s\n", token, opts.Requester)

	return nil
}
