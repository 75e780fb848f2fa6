package attempt

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/abhisek/quizdesk/internal/api"
)

// Answer is a learner's response to one question. Single-choice and open
// answers hold one value; multi-choice answers hold a set of option ids.
type Answer struct {
	Values []string
	Multi  bool
}

// SingleChoice answers a single-choice question with one option id.
func SingleChoice(optionID api.ID) Answer {
	return Answer{Values: []string{optionID.String()}}
}

// MultiChoice answers a multi-choice question with a set of option ids.
func MultiChoice(optionIDs ...api.ID) Answer {
	vals := make([]string, 0, len(optionIDs))
	for _, id := range optionIDs {
		vals = append(vals, id.String())
	}
	return Answer{Values: vals, Multi: true}
}

// Text answers an open question.
func Text(s string) Answer {
	return Answer{Values: []string{s}}
}

// Value returns the single value of a non-multi answer.
func (a Answer) Value() string {
	if len(a.Values) == 0 {
		return ""
	}
	return a.Values[0]
}

// Has reports whether v is among the answer's values.
func (a Answer) Has(v string) bool {
	for _, x := range a.Values {
		if x == v {
			return true
		}
	}
	return false
}

// MarshalJSON writes multi-choice answers as arrays and everything else as
// a plain string.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		vals := a.Values
		if vals == nil {
			vals = []string{}
		}
		return json.Marshal(vals)
	}
	return json.Marshal(a.Value())
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var vals []string
		if err := json.Unmarshal(b, &vals); err != nil {
			return fmt.Errorf("decode answer: %w", err)
		}
		if vals == nil {
			vals = []string{}
		}
		*a = Answer{Values: vals, Multi: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}
	*a = Answer{Values: []string{s}}
	return nil
}
