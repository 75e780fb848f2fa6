package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/catalog"
)

var searchCmd = &cobra.Command{
	Use:   "search <listing> [query]",
	Short: "Search a listing and print the matches",
	Long: "Search fetches a listing from the platform and ranks it against the query:\n" +
		"exact match on the primary field first, then substring, then fuzzy.\n\n" +
		"Listings: courses, tests (--course), users, groups, and for staff my-courses,\n" +
		"my-tests, questions (--test), my-groups and students (--group).",
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := catalog.ParseKind(args[0])
		if err != nil {
			return err
		}
		var query string
		if len(args) == 2 {
			query = args[1]
		}
		var parent string
		if p := kind.Parent(); p != "" {
			parent, _ = cmd.Flags().GetString(p)
			if parent == "" {
				return fmt.Errorf("searching %s needs --%s", kind.Noun(), p)
			}
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if kind.AdminOnly() && !rt.identity.IsAdmin() {
			return fmt.Errorf("only administrators can list %s", kind.Noun())
		}
		if kind.StaffOnly() && !rt.identity.CanManage() {
			return fmt.Errorf("only teachers and administrators can list %s", kind)
		}

		rows, err := catalog.Load(cmd.Context(), rt.client, kind, api.ID(parent))
		if err != nil {
			return err
		}

		matches := catalog.NewSearcher(rows).Search(query)
		out := cmd.OutOrStdout()
		if len(matches) == 0 {
			fmt.Fprintf(out, "No %s match %q.\n", kind.Noun(), query)
			return nil
		}

		table := make([][]string, len(matches))
		for i, m := range matches {
			table[i] = m.Item.Columns
		}
		printTable(out, kind.Headers(), table)
		if query != "" {
			fmt.Fprintf(out, "%d of %d %s, %s match on %q\n",
				len(matches), len(rows), kind.Noun(), matches[0].Tier, strings.TrimSpace(query))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().String("course", "", "Course whose tests to search")
	searchCmd.Flags().String("test", "", "Test whose questions to search")
	searchCmd.Flags().String("group", "", "Group whose students to search")
}
