package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"flow-metrics/internal/analytics"
	"flow-metrics/internal/cache"
	"flow-metrics/internal/config"
	"flow-metrics/internal/dashboard"
	"flow-metrics/internal/logging"
	"flow-metrics/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "flow-metrics",
	Short: "Flow metrics for Jira Cloud",
	Long: `Computes delivery-flow metrics (lead time, throughput, WIP, reopen rate, time in status,
weekly trends and cumulative flow) from a Jira Cloud project.

Without a subcommand the metrics are served as MCP tools over stdio using the
JIRA_URL, JIRA_EMAIL and JIRA_API_TOKEN credentials.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			log.Warn().Err(err).Msg("File logging disabled")
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("flow-metrics starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireCredentials(); err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		log.Info().Msg("MCP Server starting Stdio loop")
		return mcp.NewServer(newService(cfg), cfg.Credentials, Version).Run(ctx)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(serveCmd, reportCmd, versionCmd)
}

// newService wires the provider cache to engines built from the loaded configuration.
func newService(cfg *config.AppConfig) *dashboard.Service {
	loader := analytics.Loader(cfg.Jira, analytics.WithLocation(cfg.Location))
	return dashboard.NewService(cache.New(loader, cache.WithTTL(cfg.CacheTTL)))
}

func requireCredentials() error {
	if err := cfg.Credentials.Validate(); err != nil {
		log.Error().Err(err).Msg("JIRA_URL, JIRA_EMAIL and JIRA_API_TOKEN must be set")
		return err
	}
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
