package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-sketch/internal/logging"
	"github.com/firefly-engineering/firefly-sketch/internal/tui"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Interactive sketch picker",
	Long: `Opens an interactive TUI for running, stopping and deleting sketches.

Use arrow keys or j/k to navigate, / to filter.

Actions:
  Enter  - Build and run selected sketch
  s      - Stop selected sketch
  d      - Delete selected sketch
  r      - Refresh the list
  q/Esc  - Quit (stops every sketch started from the picker)`,
	Args: cobra.NoArgs,
	RunE: runPick,
}

var pickPlain bool

func init() {
	pickCmd.Flags().BoolVar(&pickPlain, "plain", false, "Print the catalog without starting the TUI")
	rootCmd.AddCommand(pickCmd)
}

func runPick(cmd *cobra.Command, args []string) error {
	m, err := getManager()
	if err != nil {
		return err
	}

	if pickPlain {
		infos, err := m.List()
		if err != nil {
			return fmt.Errorf("failed to list sketches: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), tui.SimplePicker(infos))
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Debug("picker mode started", "surface", m.Surface())

	err = tui.RunPicker(ctx, m)
	if running := m.Running(); len(running) > 0 {
		logWarning("Stopping %d sketch(es) started from the picker", len(running))
		m.StopAll()
	}
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}
	return nil
}
