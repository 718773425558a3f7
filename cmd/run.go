package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-sketch/internal/errors"
	"github.com/firefly-engineering/firefly-sketch/internal/logging"
	"github.com/firefly-engineering/firefly-sketch/internal/sketch"
)

var runCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Build a sketch and launch it in the terminal",
	Long: `Stops any previous run of the sketch, rebuilds it and launches the binary
in a pane, tab or window of the detected terminal.

The command waits until interrupted and then stops the sketch. With
--detach it returns immediately and leaves the sketch running.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var runDetach bool

func init() {
	runCmd.Flags().BoolVar(&runDetach, "detach", false, "Leave the sketch running and exit")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	name := args[0]

	m, err := getManager()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logInfo("Running sketch %s on %s...", name, m.Surface())
	// Once started, a run is not cancelled; an interrupt that arrives
	// meanwhile stops the sketch as soon as it is up.
	res, err := m.Run(context.WithoutCancel(ctx), name)
	if err != nil {
		return err
	}

	if !res.Success {
		logError("%s", res.Message)
		code := errors.ExitLaunchError
		if strings.HasPrefix(res.Message, sketch.CompileFailedPrefix) {
			code = errors.ExitToolchainError
		}
		return errors.New(code, firstLine(res.Message))
	}

	logSuccess("%s (pid %d)", res.Message, res.PID)
	if runDetach && ctx.Err() == nil {
		return nil
	}

	logInfo("Press Ctrl-C to stop")
	<-ctx.Done()

	logging.Debug("interrupted, stopping sketch", "name", name)
	if err := m.Stop(name); err != nil {
		return err
	}
	logSuccess("Stopped sketch %s", name)
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSuffix(line, ":")
}
