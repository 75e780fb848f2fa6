package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdesk/internal/store"
)

// testStats aggregates the local results of one test.
type testStats struct {
	TestID   string
	Attempts int
	Best     int
	Last     int
}

// summarize groups results by test, ordered by test id. Percentages are
// whole numbers.
func summarize(recs []store.ResultRecord) (overall int, tests []testStats) {
	byTest := make(map[string]*testStats)
	var correct, total int
	// recs are newest first, so the first seen is the last taken.
	for _, r := range recs {
		n := r.Correct + r.Wrong
		pct := percent(r.Correct, n)
		correct += r.Correct
		total += n

		ts, ok := byTest[r.TestID]
		if !ok {
			ts = &testStats{TestID: r.TestID, Last: pct}
			byTest[r.TestID] = ts
		}
		ts.Attempts++
		ts.Best = max(ts.Best, pct)
	}

	for _, ts := range byTest {
		tests = append(tests, *ts)
	}
	slices.SortFunc(tests, func(a, b testStats) int { return strings.Compare(a.TestID, b.TestID) })
	return percent(correct, total), tests
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize finished attempts recorded on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		recs, err := rt.store.Results().Recent(cmd.Context(), 0)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "No finished attempts yet.")
			return nil
		}

		overall, tests := summarize(recs)
		rows := make([][]string, len(tests))
		for i, ts := range tests {
			rows[i] = []string{
				ts.TestID,
				strconv.Itoa(ts.Attempts),
				fmt.Sprintf("%d%%", ts.Best),
				fmt.Sprintf("%d%%", ts.Last),
			}
		}
		printTable(out, []string{"Test", "Attempts", "Best", "Last"}, rows)
		fmt.Fprintf(out, "%d attempts on %d tests, %d%% of answers correct\n", len(recs), len(tests), overall)
		return nil
	},
}
