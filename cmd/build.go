package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-sketch/internal/errors"
)

var buildCmd = &cobra.Command{
	Use:   "build <name>",
	Short: "Compile a sketch without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

var buildOutput string

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "text", "Output format (text or json)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	name := args[0]

	m, err := getManager()
	if err != nil {
		return err
	}

	logInfo("Building sketch %s...", name)
	res, err := m.Compile(cmd.Context(), name)
	if err != nil {
		return err
	}

	if buildOutput == "json" {
		if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
			return err
		}
	} else if !res.Success {
		fmt.Fprintln(cmd.ErrOrStderr(), strings.TrimRight(res.Stderr, "\n"))
	}

	if !res.Success {
		return errors.New(errors.ExitToolchainError, fmt.Sprintf("build of %s failed (exit %d)", name, res.ExitCode))
	}

	logSuccess("Built %s in %s", res.BinaryPath, res.Duration.Round(time.Millisecond))
	return nil
}
