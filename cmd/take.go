package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/screen"
	"github.com/abhisek/quizdesk/internal/screens/quiz"
)

var takeCmd = &cobra.Command{
	Use:   "take <test-id>",
	Short: "Open a test directly",
	Long: "Open the attempt screen for a test. If an unfinished attempt on the same\n" +
		"test is saved locally it is resumed.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courseID, _ := cmd.Flags().GetString("course")
		title, _ := cmd.Flags().GetString("title")
		testID := api.ID(args[0])

		return runApp(cmd, func(rt *runtime) screen.Screen {
			return quiz.New(quiz.Deps{
				Questions: rt.client,
				Engine:    rt.engine,
				History:   rt.store.Results(),
				Log:       rt.log,
			}, testID, api.ID(courseID), title)
		})
	},
}

func init() {
	takeCmd.Flags().String("course", "", "Course the test belongs to")
	takeCmd.Flags().String("title", "", "Title shown in the header")
}
