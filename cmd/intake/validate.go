package main

import (
	"fmt"

	"github.com/riskibarqy/match-intake/internal/cli"
	"github.com/spf13/cobra"
)

var (
	validateWorkers int
	validateRender  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE...",
	Short: "Check that squad files hold a complete starting eleven",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().IntVar(&validateWorkers, "workers", 4, "files validated in parallel")
	validateCmd.Flags().BoolVar(&validateRender, "render", false, "draw each squad")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	results := cli.ValidateFiles(args, validateWorkers)

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			logger.Debug("squad file rejected", "path", result.Path, "error", result.Err)
			fmt.Fprintf(out, "FAIL %s: %v\n", result.Path, result.Err)
		} else {
			fmt.Fprintf(out, "OK   %s: %s, %d starting, %d bench\n",
				result.Path,
				result.Finalized.Formation,
				len(result.Finalized.StartingPlayers),
				len(result.Finalized.BenchPlayers),
			)
		}
		if validateRender && result.State.Formation != "" {
			fmt.Fprintln(out, cli.RenderState(result.State))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d squad files failed validation", failed, len(results))
	}
	return nil
}
