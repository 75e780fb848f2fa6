package quiz

import (
	"github.com/abhisek/quizdesk/internal/api"
	"github.com/abhisek/quizdesk/internal/attempt"
)

// loadedMsg is sent when the questions and the remaining attempt count
// have been fetched.
type loadedMsg struct {
	Questions []api.Question
	Remaining int
	Err       error
}

// startedMsg is sent when the backend has opened a new attempt.
type startedMsg struct {
	Attempt *attempt.Attempt
	Err     error
}

// submittedMsg is sent when grading and submission have finished. Result
// may be set together with a partial submission error.
type submittedMsg struct {
	Result *attempt.Result
	Err    error
}

// clearedMsg is sent after the current attempt has been discarded.
type clearedMsg struct {
	Err error
}
