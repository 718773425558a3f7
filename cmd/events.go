package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-sketch/internal/audit"
	"github.com/firefly-engineering/firefly-sketch/internal/config"
)

var eventsCmd = &cobra.Command{
	Use:   "events <name>",
	Short: "Display the lifecycle events of a sketch",
	Long: `Shows the audit trail recorded for a sketch: create, build, run, stop,
delete and errors. The trail outlives the sketch itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvents,
}

var (
	eventsLimit  int
	eventsOutput string
	eventsClear  bool
)

func init() {
	eventsCmd.Flags().IntVarP(&eventsLimit, "limit", "n", 0, "Show only the last N events (0 for all)")
	eventsCmd.Flags().StringVarP(&eventsOutput, "output", "o", "text", "Output format (text or jsonl)")
	eventsCmd.Flags().BoolVar(&eventsClear, "clear", false, "Remove the recorded events")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := config.ValidateSketchName(name); err != nil {
		return err
	}

	a, err := getApp()
	if err != nil {
		return err
	}

	if eventsClear {
		if err := a.Audit.Remove(name); err != nil {
			return fmt.Errorf("failed to clear events: %w", err)
		}
		logSuccess("Cleared events for %s", name)
		return nil
	}

	var events []audit.Event
	if eventsLimit > 0 {
		events, err = a.Audit.Last(name, eventsLimit)
	} else {
		events, err = a.Audit.Events(name)
	}
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	if len(events) == 0 {
		logInfo("No events found for sketch %s", name)
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if eventsOutput == "jsonl" {
			data, err := json.Marshal(e)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			continue
		}

		line := fmt.Sprintf("%s  %-7s", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Type)
		if e.Details != "" {
			line += "  " + e.Details
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
