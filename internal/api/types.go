package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// ID is an opaque backend identifier. The backend issues integers, but the
// client never does arithmetic on them, so they are carried as strings and
// written back as JSON numbers when they look like one.
type ID string

// UnmarshalJSON accepts both JSON numbers and JSON strings.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes digit-only ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string { return string(id) }

func (id ID) numeric() bool {
	if id == "" || len(id) > 18 {
		return false
	}
	if len(id) > 1 && id[0] == '0' {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// QuestionType distinguishes free-text questions from option questions.
type QuestionType string

const (
	QuestionOpen   QuestionType = "open"
	QuestionClosed QuestionType = "closed"
)

// Option is one selectable answer of a closed question.
type Option struct {
	ID        ID     `json:"id"`
	Text      string `json:"option_text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is a quiz question as served by GET /api/tests/{id}/questions.
type Question struct {
	ID                ID           `json:"id"`
	TestID            ID           `json:"test_id,omitempty"`
	Text              string       `json:"question_text"`
	Type              QuestionType `json:"question_type"`
	MultipleChoice    bool         `json:"multiple_choice"`
	Difficulty        string       `json:"difficulty,omitempty"`
	CorrectAnswerText string       `json:"correct_answer_text,omitempty"`
	Options           []Option     `json:"options,omitempty"`
}

// CorrectOptionIDs returns the ids of every option flagged correct.
func (q Question) CorrectOptionIDs() []ID {
	var ids []ID
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// LatestAttempt is the learner's most recent finished attempt on a test.
type LatestAttempt struct {
	Score         int `json:"score"`
	AttemptNumber int `json:"attempt_number"`
}

// CreatedAttempt is returned when the backend opens a new attempt.
type CreatedAttempt struct {
	AttemptID     ID  `json:"attemptId"`
	AttemptNumber int `json:"attemptNumber"`
}

// AnswerSubmission records whether one question was answered correctly.
type AnswerSubmission struct {
	AttemptID  ID   `json:"attempt_id"`
	QuestionID ID   `json:"question_id"`
	IsCorrect  bool `json:"is_correct"`
}

// FinishRequest carries the aggregate result of an attempt.
type FinishRequest struct {
	Score          int `json:"score"`
	CorrectAnswers int `json:"correct_answers"`
	WrongAnswers   int `json:"wrong_answers"`
}

// AttemptSummary is the backend's view of a finished attempt. Fields the
// backend leaves out stay zero.
type AttemptSummary struct {
	ID             ID         `json:"id,omitempty"`
	TestID         ID         `json:"test_id,omitempty"`
	AttemptNumber  int        `json:"attempt_number,omitempty"`
	Score          int        `json:"score"`
	CorrectAnswers int        `json:"correct_answers"`
	WrongAnswers   int        `json:"wrong_answers"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// Course is an entry of GET /api/courses.
type Course struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TestCount   int    `json:"test_count"`
}

// TestInfo is an entry of GET /api/courses/{id}/tests.
type TestInfo struct {
	ID            ID     `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

// User is an entry of GET /api/admin/users.
type User struct {
	ID       ID     `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
	GroupID  *ID    `json:"group_id,omitempty"`
}

// Group is an entry of GET /api/admin/groups.
type Group struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	TeacherID *ID    `json:"teacher_id,omitempty"`
}

// TeacherCourse is an entry of GET /api/teacher/courses.
type TeacherCourse struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TeacherID   ID     `json:"teacher_id"`
}

// TeacherTest is an entry of GET /api/teacher/tests, spanning every course
// the caller teaches.
type TeacherTest struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CourseID    ID     `json:"course_id"`
}

// Student is a member of a group.
type Student struct {
	ID       ID     `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// GroupDetail is GET /api/teacher/groups/{id}: a group and its students.
type GroupDetail struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	TeacherID *ID       `json:"teacher_id,omitempty"`
	Students  []Student `json:"students"`
}
