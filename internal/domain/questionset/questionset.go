package questionset

import "fmt"

// OptionCount is the required number of labelled options per MCQ item.
const OptionCount = 5

// MCQItem is one multiple-choice question with exactly five labelled options.
type MCQItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuestionSet is an ordered set of generated interview questions.
type QuestionSet struct {
	OpenQuestions []string  `json:"open_questions"`
	MCQ           []MCQItem `json:"mcq"`
}

// Total counts all questions in the set.
func (qs *QuestionSet) Total() int {
	return len(qs.OpenQuestions) + len(qs.MCQ)
}

// Validate checks structural invariants of a generated set: at least one
// question overall and exactly five options on every MCQ item.
func (qs *QuestionSet) Validate() error {
	if qs.Total() == 0 {
		return fmt.Errorf("question set is empty")
	}
	for i, item := range qs.MCQ {
		if item.Question == "" {
			return fmt.Errorf("mcq %d has no question text", i+1)
		}
		if len(item.Options) != OptionCount {
			return fmt.Errorf("mcq %d has %d options, want %d", i+1, len(item.Options), OptionCount)
		}
	}
	return nil
}
