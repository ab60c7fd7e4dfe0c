package main

import (
	"fmt"
	"os"

	"github.com/riskibarqy/match-intake/internal/platform/logging"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	logger   = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "intake",
	Short:         "Build and check match squads from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewConsole(logging.ParseLevel(logLevel))
		logging.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(formationsCmd, validateCmd, editCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
