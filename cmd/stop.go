package cmd

import (
	"slices"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a running sketch",
	Long: `Terminates the process registered for a sketch in this session.

Stopping a sketch that is not running is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	name := args[0]

	m, err := getManager()
	if err != nil {
		return err
	}

	wasRunning := slices.Contains(m.Running(), name)
	if err := m.Stop(name); err != nil {
		return err
	}

	if !wasRunning {
		logInfo("Sketch %s is not running in this session", name)
		return nil
	}
	logSuccess("Stopped sketch %s", name)
	return nil
}
