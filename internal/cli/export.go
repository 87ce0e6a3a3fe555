package cli

import (
	"github.com/spf13/cobra"

	"dealscope/internal/app"
)

var (
	exportCountry   string
	exportRequester string
	exportPNGPath   string
)

var exportCmd = &cobra.Command{
	Use:   "export <store-url-or-appid>",
	Short: "Build an export artifact and issue a single-use access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			Target:    args[0],
			Country:   exportCountry,
			Requester: exportRequester,
			PNGPath:   exportPNGPath,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCountry, "country", "", "Two-letter country code (defaults to config)")
	exportCmd.Flags().StringVar(&exportRequester, "requester", "", "Identity the access token is bound to")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write a PNG chart of the offer timeline")
}
