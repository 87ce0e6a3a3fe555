package cli

import (
	"github.com/spf13/cobra"

	"dealscope/internal/app"
)

var (
	redeemToken     string
	redeemRequester string
	redeemOutPath   string
)

var redeemCmd = &cobra.Command{
	Use:   "redeem",
	Short: "Consume an access token and retrieve the export artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.RedeemOptions{
			Token:     redeemToken,
			Requester: redeemRequester,
			OutPath:   redeemOutPath,
		}
		return getApp().Redeem(cmd.Context(), opts)
	},
}

func init() {
	redeemCmd.Flags().StringVar(&redeemToken, "token", "", "Access token from a previous export")
	redeemCmd.Flags().StringVar(&redeemRequester, "requester", "", "Identity the token was issued to")
	redeemCmd.Flags().StringVar(&redeemOutPath, "out", "", "Path to write the artifact JSON (stdout if unset)")
}
