package main

import (
	"fmt"

	"github.com/riskibarqy/match-intake/internal/cli"
	"github.com/riskibarqy/match-intake/internal/domain/formation"
	"github.com/spf13/cobra"
)

var listOnly bool

var formationsCmd = &cobra.Command{
	Use:   "formations",
	Short: "Show the supported formations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if listOnly {
			for _, id := range formation.All() {
				fmt.Fprintln(out, id)
			}
			return nil
		}
		fmt.Fprintln(out, cli.RenderFormations())
		return nil
	},
}

func init() {
	formationsCmd.Flags().BoolVar(&listOnly, "list", false, "print formation ids only")
}
