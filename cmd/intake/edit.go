package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riskibarqy/match-intake/internal/cli"
	"github.com/riskibarqy/match-intake/internal/domain/roster"
	"github.com/spf13/cobra"
)

var editOutput string

var editCmd = &cobra.Command{
	Use:   "edit [FILE]",
	Short: "Edit a squad interactively and save it as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editOutput, "output", "o", "", "where to write the squad (defaults to FILE or roster.yaml)")
}

func runEdit(cmd *cobra.Command, args []string) error {
	engine := roster.NewDefaultEngine()
	target := "roster.yaml"
	if len(args) == 1 {
		target = args[0]
		snapshot, err := cli.LoadSnapshot(args[0])
		if err != nil {
			return err
		}
		engine, err = roster.NewEngine(snapshot)
		if err != nil {
			return err
		}
	}
	if editOutput != "" {
		target = editOutput
	}

	editor := cli.NewEditor(engine)
	if _, err := tea.NewProgram(editor, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	finalized, ok := editor.Result()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "squad not saved")
		return nil
	}
	if err := cli.SavePayload(target, finalized.Payload()); err != nil {
		return err
	}
	logger.Info("squad saved", "path", target, "formation", finalized.Formation)
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", target, finalized.Formation)
	return nil
}
