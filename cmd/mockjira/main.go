package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flow-metrics/cmd/mockjira/fixture"
	"flow-metrics/internal/logging"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	gen     fixture.GeneratorConfig
	outDir  string
	addr    string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mockjira",
	Short: "Synthetic Jira Cloud project for local development",
	Long: `Generates a synthetic project (mild, chaos or drift scenario) and either writes it
as a search response to --out or serves it on /rest/api/3/search at --addr.
Point JIRA_URL at the listen address to run flow-metrics against it.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			log.Warn().Err(err).Msg("File logging disabled")
		}
		gen.Now = time.Now()

		log.Info().
			Str("scenario", gen.Scenario).
			Str("distribution", gen.Distribution).
			Int("count", gen.Count).
			Uint64("seed", gen.Seed).
			Msg("Generating mock project")
		issues := fixture.Generate(gen)

		if outDir != "" {
			path, err := fixture.Save(outDir, issues)
			if err != nil {
				return fmt.Errorf("failed to save mock data: %w", err)
			}
			log.Info().Str("path", path).Msg("Mock search response written")
			return nil
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{Addr: addr, Handler: fixture.NewHandler(issues), ReadHeaderTimeout: 10 * time.Second}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info().Str("addr", addr).Msg("Mock Jira listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func main() {
	f := rootCmd.Flags()
	f.StringVar(&gen.Scenario, "scenario", "mild", "scenario to generate: mild, chaos, drift")
	f.StringVar(&gen.Distribution, "distribution", "uniform", "duration distribution: uniform, weibull")
	f.IntVar(&gen.Count, "count", 200, "number of issues to generate")
	f.Uint64Var(&gen.Seed, "seed", 1, "random seed")
	f.StringVar(&outDir, "out", "", "write search.json to this directory instead of serving")
	f.StringVar(&addr, "addr", ":5025", "listen address")
	f.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
