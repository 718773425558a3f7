package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-sketch/internal/sketch"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all sketches",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var listOutput string

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "Output format (table or json)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	m, err := getManager()
	if err != nil {
		return err
	}

	infos, err := m.List()
	if err != nil {
		return fmt.Errorf("failed to list sketches: %w", err)
	}

	if listOutput == "json" {
		if infos == nil {
			infos = []sketch.Info{}
		}
		return writeJSON(cmd.OutOrStdout(), infos)
	}

	if len(infos) == 0 {
		logInfo("No sketches found. Create one with: sketch-ctl create <name> --file main.rs")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTATUS\tPID\tDESCRIPTION")
	fmt.Fprintln(w, "----\t------\t---\t-----------")

	for _, info := range infos {
		pid := "-"
		if info.PID > 0 {
			pid = fmt.Sprint(info.PID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.Name, formatStatus(info.Status), pid, info.Description)
	}

	return w.Flush()
}

func formatStatus(status sketch.Status) string {
	switch status {
	case sketch.StatusRunning:
		return "▶ running"
	case sketch.StatusReady:
		return "✓ ready"
	case sketch.StatusCreated:
		return "○ created"
	default:
		return string(status)
	}
}
