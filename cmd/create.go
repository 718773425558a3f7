package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a sketch from source",
	Long: `Writes a sketch's source, Cargo.toml and metadata into the catalog.

The source is read from --file, or from stdin when --file is omitted or "-".
An existing sketch of the same name is overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

var (
	createDescription string
	createFile        string
)

func init() {
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Short description of the sketch")
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "Read source from file instead of stdin")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]

	source, err := readSource(cmd.InOrStdin(), createFile)
	if err != nil {
		return err
	}

	m, err := getManager()
	if err != nil {
		return err
	}

	info, err := m.Create(name, createDescription, source)
	if err != nil {
		return err
	}

	logSuccess("Created sketch %s at %s", info.Name, info.Path)
	return nil
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}
