package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete local data",
	Long: "Reset discards the saved attempt and the local history of finished\n" +
		"attempts. Nothing is removed from the platform.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return errors.New("this deletes the saved attempt and local history; pass --yes to confirm")
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.engine.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear attempt: %w", err)
		}
		if err := rt.store.Results().Prune(cmd.Context(), 0); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Local data reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
