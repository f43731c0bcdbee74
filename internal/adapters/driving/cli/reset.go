package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear sync state so the next run re-delivers everything",
	Long: `Deletes the local sync state file. The next 'granola-sync sync' run
treats every document in the window as new. Credentials and settings
are untouched.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if err := stateStore.Reset(context.Background()); err != nil {
		return err
	}
	cmd.Println("Sync state cleared.")
	return nil
}
