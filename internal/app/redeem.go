package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Redeem consumes an export token and writes the artifact JSON to the given
// path, or to stdout when no path is set. A token redeems exactly once.
func (a *App) Redeem(ctx context.Context, opts RedeemOptions) error {
	if opts.Token == "" {
		return errors.New("--token is required")
	}
	if opts.Requester == "" {
		return errors.New("--requester is required")
	}

	store, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	artifact, err := store.Redeem(opts.Token, opts.Requester)
	if err != nil {
		a.Metrics.RedeemsDenied.Inc()
		return err
	}
	a.Metrics.ArtifactsRedeemed.Inc()

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	if opts.OutPath == "" {
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}

	if err := ensureDir(opts.OutPath); err != nil {
		return err
	}
	if err := os.WriteFile(opts.OutPath, data, 0o644); err != nil {
		return err
	}

	a.Logger.Info().Str("appid", artifact.AppID).Str("path", opts.OutPath).Msg("artifact redeemed")
	fmt.Fprintf(os.Stdout, "Artifact written to %s\n", opts.OutPath)
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
