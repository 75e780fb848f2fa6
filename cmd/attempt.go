package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/attempt"
)

var attemptCmd = &cobra.Command{
	Use:   "attempt",
	Short: "Inspect and manage the saved attempt",
}

var attemptShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the attempt saved on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		out := cmd.OutOrStdout()
		a := rt.engine.Current()
		if a == nil {
			fmt.Fprintln(out, "No attempt saved.")
			return nil
		}
		fmt.Fprintf(out, "Attempt: %s (#%d of %d)\n", a.ID, a.Number, attempt.MaxAttempts)
		fmt.Fprintf(out, "Test:    %s\n", a.TestID)
		if a.CourseID != "" {
			fmt.Fprintf(out, "Course:  %s\n", a.CourseID)
		}
		fmt.Fprintf(out, "Started: %s\n", a.StartedAt.Local().Format(time.DateTime))
		fmt.Fprintf(out, "State:   %s\n", a.Phase())
		fmt.Fprintf(out, "Answers: %d\n", a.Answered())
		return nil
	},
}

var attemptRemainingCmd = &cobra.Command{
	Use:   "remaining <test-id>",
	Short: "Show how many attempts are left on a test",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		n := rt.engine.AttemptsRemaining(cmd.Context(), api.ID(args[0]))
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d attempts remaining\n", n, attempt.MaxAttempts)
		return nil
	},
}

var attemptClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the saved attempt without submitting it",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if rt.engine.Current() == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No attempt saved.")
			return nil
		}
		if err := rt.engine.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("clear attempt: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved attempt discarded.")
		return nil
	},
}

var attemptHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished attempts recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		recs, err := rt.store.Results().Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No finished attempts yet.")
			return nil
		}

		rows := make([][]string, 0, len(recs))
		for _, r := range recs {
			total := r.Correct + r.Wrong
			rows = append(rows, []string{
				r.FinishedAt.Local().Format(time.DateTime),
				r.TestID,
				strconv.Itoa(r.AttemptNumber),
				fmt.Sprintf("%d/%d", r.Score, total),
				fmt.Sprintf("%d%%", percent(r.Correct, total)),
			})
		}
		printTable(cmd.OutOrStdout(), []string{"Finished", "Test", "Attempt", "Score", "%"}, rows)
		return nil
	},
}

func init() {
	attemptHistoryCmd.Flags().Int("limit", 20, "Maximum rows to show (0 for all)")

	attemptCmd.AddCommand(attemptShowCmd)
	attemptCmd.AddCommand(attemptRemainingCmd)
	attemptCmd.AddCommand(attemptClearCmd)
	attemptCmd.AddCommand(attemptHistoryCmd)
}
