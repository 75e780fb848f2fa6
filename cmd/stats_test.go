package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdesk/internal/store"
)

func TestSummarize(t *testing.T) {
	now := time.Now()
	recs := []store.ResultRecord{
		{TestID: "7", Correct: 1, Wrong: 1, FinishedAt: now},
		{TestID: "3", Correct: 4, Wrong: 0, FinishedAt: now.Add(-time.Hour)},
		{TestID: "7", Correct: 2, Wrong: 0, FinishedAt: now.Add(-2 * time.Hour)},
	}

	overall, tests := summarize(recs)
	assert.Equal(t, 87, overall)
	require.Len(t, tests, 2)

	assert.Equal(t, testStats{TestID: "3", Attempts: 1, Best: 100, Last: 100}, tests[0])
	assert.Equal(t, testStats{TestID: "7", Attempts: 2, Best: 100, Last: 50}, tests[1])
}

func TestSummarizeEmptyAttempt(t *testing.T) {
	overall, tests := summarize([]store.ResultRecord{{TestID: "1"}})
	assert.Equal(t, 0, overall)
	assert.Equal(t, 0, tests[0].Best)
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, []string{"Test", "Best"}, [][]string{{"42", "90%"}})
	out := buf.String()
	assert.Contains(t, out, "Test")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "90%")
}

func TestResetNeedsConfirmation(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"reset"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestSearchScopedListingNeedsParent(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"search", "students", "ada"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--group")
}
