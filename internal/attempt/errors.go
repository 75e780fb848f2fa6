package attempt

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/quizdesk/internal/api"
)

var (
	// ErrNoAttemptsLeft is returned by Start when the attempt limit is used up.
	ErrNoAttemptsLeft = errors.New("no attempts left for this test")

	// ErrNoCurrentAttempt is returned when an operation needs an attempt in
	// progress and there is none.
	ErrNoCurrentAttempt = errors.New("no attempt in progress")

	// ErrAlreadySubmitted is returned when grading an attempt that has
	// already been finished.
	ErrAlreadySubmitted = errors.New("attempt already submitted")

	// ErrAttemptFinished is returned when recording an answer on a finished
	// attempt.
	ErrAttemptFinished = errors.New("attempt is finished")
)

// PartialSubmitError lists questions whose result could not be posted. The
// attempt was still finished with the full aggregate.
type PartialSubmitError struct {
	Failed map[api.ID]error
}

func (e *PartialSubmitError) Error() string {
	ids := make([]string, 0, len(e.Failed))
	for id := range e.Failed {
		ids = append(ids, id.String())
	}
	slices.Sort(ids)
	return fmt.Sprintf("%d answer submission(s) failed: %s", len(ids), strings.Join(ids, ", "))
}

// Unwrap exposes the individual submission errors to errors.Is and errors.As.
func (e *PartialSubmitError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		errs = append(errs, err)
	}
	return errs
}
