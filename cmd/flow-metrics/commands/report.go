package commands

import (
	"encoding/json"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print every metric for the configured project as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredentials(); err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		summary, err := newService(cfg).Summarize(ctx, cfg.Credentials)
		if err != nil {
			return err
		}
		log.Info().Int("issues", summary.Issues).Msg("Report computed")

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	},
}
