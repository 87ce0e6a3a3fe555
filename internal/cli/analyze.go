package cli

import (
	"github.com/spf13/cobra"

	"dealscope/internal/app"
)

var analyzeCountry string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <store-url-or-appid>",
	Short: "Reconstruct and display a title's offer history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.AnalyzeOptions{
			Target:  args[0],
			Country: analyzeCountry,
		}
		return getApp().Analyze(cmd.Context(), opts)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCountry, "country", "", "Two-letter country code (defaults to config)")
}
