package interview

import "math"

// State is the lifecycle of a session: open until the first successful
// evaluation, evaluated afterwards. Evaluated sessions may be re-scored but
// their answers never change.
type State string

const (
	StateOpen      State = "open"
	StateEvaluated State = "evaluated"
)

// Answer question type tags.
const (
	TypeOpen    = "open"
	TypeMCQ     = "mcq"
	TypeGeneral = "general"
)

// Answer is one submitted answer. Immutable once stored.
type Answer struct {
	Question string `json:"question"`
	Type     string `json:"type"`
	Text     string `json:"answer"`
}

// Session is a single candidate's interview instance.
type Session struct {
	ID      string   `json:"id"`
	Role    string   `json:"role"`
	Level   string   `json:"level"`
	Answers []Answer `json:"answers"`
	State   State    `json:"state"`
}

// EvaluationItem is the scored result for one answer.
type EvaluationItem struct {
	Question         string   `json:"question"`
	Score            float64  `json:"score"`
	Feedback         string   `json:"feedback"`
	Topic            string   `json:"topic,omitempty"`
	KeyPointsCovered []string `json:"key_points_covered,omitempty"`
	KeyPointsMissed  []string `json:"key_points_missed,omitempty"`
}

// Report is the aggregate evaluation of a session. Items holds one entry per
// submitted answer, in submission order.
type Report struct {
	SessionID    string           `json:"session_id"`
	Role         string           `json:"role"`
	Level        string           `json:"level"`
	Items        []EvaluationItem `json:"items"`
	OverallScore float64          `json:"overall_score"`
}

// OverallScore computes the arithmetic mean of item scores rounded to one
// decimal. Returns 0 for an empty slice; callers guard against evaluating
// sessions with no answers before getting here.
func OverallScore(items []EvaluationItem) float64 {
	if len(items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range items {
		sum += it.Score
	}
	return math.Round(sum/float64(len(items))*10) / 10
}
