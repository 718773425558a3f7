package cmd

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Stop and remove a sketch",
	Long: `Stops the sketch if it is running and removes its directory from the
catalog. Deleting a sketch that does not exist is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	m, err := getManager()
	if err != nil {
		return err
	}

	if err := m.Delete(name); err != nil {
		return err
	}

	logSuccess("Deleted sketch %s", name)
	return nil
}
