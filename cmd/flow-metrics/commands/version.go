package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flow-metrics %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}

func init() {
	// No config or log file needed.
	versionCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }
}
