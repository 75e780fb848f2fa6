package attempt

import "github.com/abhisek/quizdesk/internal/api"

// Grade reports whether ans is a correct answer to q.
//
// Closed questions need the selected options to equal the set of correct
// options exactly. A closed question with no correct option never grades
// correct. Open questions are compared by text similarity.
func Grade(q api.Question, ans Answer, threshold int) bool {
	if q.Type == api.QuestionOpen {
		return CompareTextAnswers(ans.Value(), q.CorrectAnswerText, threshold)
	}

	correct := make(map[string]struct{})
	for _, id := range q.CorrectOptionIDs() {
		correct[id.String()] = struct{}{}
	}
	if len(correct) == 0 {
		return false
	}

	selected := make(map[string]struct{})
	for _, v := range ans.Values {
		if v != "" {
			selected[v] = struct{}{}
		}
	}
	if !q.MultipleChoice && len(selected) != 1 {
		return false
	}
	if len(selected) != len(correct) {
		return false
	}
	for v := range selected {
		if _, ok := correct[v]; !ok {
			return false
		}
	}
	return true
}

// Tally grades every question against answers. Unanswered questions count
// as wrong. Score equals the number of correct answers.
func Tally(questions []api.Question, answers map[api.ID]Answer, threshold int) (results map[api.ID]bool, correct, wrong int) {
	results = make(map[api.ID]bool, len(questions))
	for _, q := range questions {
		ok := false
		if ans, found := answers[q.ID]; found {
			ok = Grade(q, ans, threshold)
		}
		results[q.ID] = ok
		if ok {
			correct++
		} else {
			wrong++
		}
	}
	return results, correct, wrong
}
