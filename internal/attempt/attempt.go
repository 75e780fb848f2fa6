package attempt

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/quizdesk/internal/api"
)

// MaxAttempts is the number of attempts a learner gets per test.
const MaxAttempts = 2

// Phase is the lifecycle position of the current attempt.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in progress"
	case PhaseFinished:
		return "finished"
	default:
		return "none"
	}
}

// Attempt is one learner attempt at a test, as persisted locally.
type Attempt struct {
	ID        api.ID            `json:"attemptId"`
	Number    int               `json:"attemptNumber"`
	StartedAt time.Time         `json:"startedAt"`
	Answers   map[api.ID]Answer `json:"answers"`
	TestID    api.ID            `json:"testId"`
	CourseID  api.ID            `json:"courseId"`

	// FinishedAt is set once the backend accepted the finish call.
	FinishedAt *time.Time `json:"finishedAt,omitempty"`

	// Submitted holds the questions whose result was already posted.
	Submitted []api.ID `json:"submitted,omitempty"`
}

// Phase reports where a is in its lifecycle. A nil attempt is PhaseNone.
func (a *Attempt) Phase() Phase {
	switch {
	case a == nil:
		return PhaseNone
	case a.FinishedAt != nil:
		return PhaseFinished
	default:
		return PhaseInProgress
	}
}

// Answered returns how many questions have a recorded answer.
func (a *Attempt) Answered() int {
	if a == nil {
		return 0
	}
	return len(a.Answers)
}

// Clone returns a deep copy of a.
func (a *Attempt) Clone() *Attempt {
	if a == nil {
		return nil
	}
	c := *a
	c.Answers = make(map[api.ID]Answer, len(a.Answers))
	for k, v := range a.Answers {
		v.Values = slices.Clone(v.Values)
		c.Answers[k] = v
	}
	if a.FinishedAt != nil {
		t := *a.FinishedAt
		c.FinishedAt = &t
	}
	c.Submitted = slices.Clone(a.Submitted)
	return &c
}

func (a *Attempt) submittedSet() map[api.ID]bool {
	set := make(map[api.ID]bool, len(a.Submitted))
	for _, id := range a.Submitted {
		set[id] = true
	}
	return set
}

// Result is the outcome of grading and submitting an attempt.
type Result struct {
	Score         int
	Correct       int
	Wrong         int
	AttemptNumber int

	// PerQuestion maps question id to whether it was graded correct.
	PerQuestion map[api.ID]bool

	// Summary is the backend's record of the finished attempt, if it sent one.
	Summary *api.AttemptSummary
}

// Total returns the number of graded questions.
func (r *Result) Total() int { return r.Correct + r.Wrong }

// CorrectIDs returns the ids of correctly answered questions in sorted order.
func (r *Result) CorrectIDs() []api.ID {
	var ids []api.ID
	for _, id := range slices.Sorted(maps.Keys(r.PerQuestion)) {
		if r.PerQuestion[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
