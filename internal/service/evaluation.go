// internal/service/evaluation.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mockmate/backend/internal/domain/interview"
	"github.com/mockmate/backend/internal/keypool"
	"github.com/mockmate/backend/internal/llm"
	"github.com/mockmate/backend/internal/parse"
	"github.com/mockmate/backend/internal/session"
	"github.com/mockmate/backend/internal/worker"
)

// ErrNoAnswers is returned when evaluation is requested for a session that
// has no stored answers.
var ErrNoAnswers = errors.New("no answers submitted")

// DefaultScore is the neutral score assigned when an answer cannot be scored
// (upstream failure, timeout, unparseable model output).
const DefaultScore = 5.0

// EvaluationBudget bounds one whole Evaluate call. Items still pending when
// it runs out degrade to the neutral score, so the report is always produced
// within the budget. The HTTP server's write timeout is derived from it.
const EvaluationBudget = 5 * time.Minute

// ReportArchive persists finished reports. Nil-able collaborator: evaluation
// succeeds even when archiving fails.
type ReportArchive interface {
	SaveReport(report *interview.Report) error
}

// EvaluationService scores a session's answers with the model, one call per
// answer, and rolls the items into a report. A single bad answer never aborts
// the whole report: per-item failures degrade to a neutral score with a
// diagnostic feedback string.
type EvaluationService struct {
	sessions *session.Store
	keys     *keypool.Pool
	invoker  llm.Invoker
	archive  ReportArchive
	logger   *slog.Logger

	itemTimeout time.Duration
	totalBudget time.Duration
	workers     int
}

func NewEvaluationService(sessions *session.Store, keys *keypool.Pool, invoker llm.Invoker, archive ReportArchive, logger *slog.Logger) *EvaluationService {
	return &EvaluationService{
		sessions:    sessions,
		keys:        keys,
		invoker:     invoker,
		archive:     archive,
		logger:      logger,
		itemTimeout: 60 * time.Second,
		totalBudget: EvaluationBudget,
		workers:     4,
	}
}

// Evaluate scores every stored answer of the session and returns the
// aggregate report. Items appear in submission order regardless of which
// scoring call finishes first. Re-invoking on the same session re-scores from
// scratch; stored answers are never mutated.
func (s *EvaluationService) Evaluate(ctx context.Context, sessionID string) (*interview.Report, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	answers, err := s.sessions.Answers(sessionID)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	// Bound the whole evaluation: with many answers the per-item timeouts can
	// stack past what any caller will wait for. Items past the budget degrade.
	ctx, cancel := context.WithTimeout(ctx, s.totalBudget)
	defer cancel()

	pool := worker.NewPool[interview.EvaluationItem](s.workers, len(answers))
	for i, a := range answers {
		answer := a
		pool.Submit(i, func() interview.EvaluationItem {
			return s.scoreAnswer(ctx, sess.Role, sess.Level, answer)
		})
	}
	pool.Close()

	items := make([]interview.EvaluationItem, len(answers))
	for range answers {
		res := <-pool.Results()
		items[res.Index] = res.Output
	}

	report := &interview.Report{
		SessionID:    sessionID,
		Role:         sess.Role,
		Level:        sess.Level,
		Items:        items,
		OverallScore: interview.OverallScore(items),
	}

	if err := s.sessions.MarkEvaluated(sessionID); err != nil {
		return nil, err
	}

	if s.archive != nil {
		if err := s.archive.SaveReport(report); err != nil {
			s.logger.Error("failed to archive report", "session_id", sessionID, "error", err)
		}
	}

	return report, nil
}

// scoreAnswer runs the full per-item pipeline: key acquisition, model call,
// structured parse. Every failure path produces a degraded item instead of an
// error.
func (s *EvaluationService) scoreAnswer(ctx context.Context, role, level string, a interview.Answer) interview.EvaluationItem {
	itemCtx, cancel := context.WithTimeout(ctx, s.itemTimeout)
	defer cancel()

	item := interview.EvaluationItem{
		Question: a.Question,
		Score:    DefaultScore,
	}

	apiKey, err := s.keys.Acquire(itemCtx)
	if err != nil {
		s.logger.Error("key acquisition failed", "question", a.Question, "error", err)
		item.Feedback = fmt.Sprintf("evaluation unavailable: %v", err)
		return item
	}

	raw, err := s.invoker.Generate(itemCtx, apiKey, buildScoringPrompt(role, level, a))
	if err != nil {
		s.logger.Error("scoring call failed", "question", a.Question, "error", err)
		item.Feedback = fmt.Sprintf("evaluation unavailable: %v", err)
		return item
	}

	var result struct {
		Score            float64  `json:"score"`
		Feedback         string   `json:"feedback"`
		Topic            string   `json:"topic"`
		KeyPointsCovered []string `json:"key_points_covered"`
		KeyPointsMissed  []string `json:"key_points_missed"`
	}
	if !parse.Decode(raw, &result) {
		// Unstructured output: salvage a score if one is present, keep the
		// raw text as feedback.
		item.Score = parse.PartialScore(raw, DefaultScore)
		item.Feedback = raw
		return item
	}

	item.Score = clampScore(result.Score)
	item.Feedback = result.Feedback
	item.Topic = result.Topic
	item.KeyPointsCovered = result.KeyPointsCovered
	item.KeyPointsMissed = result.KeyPointsMissed
	return item
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// buildScoringPrompt asks for one JSON object per answer. The level line sets
// the expectation bar; the schema comes last so it is the final thing the
// model sees.
func buildScoringPrompt(role, level string, a interview.Answer) string {
	return fmt.Sprintf(`You are an expert %s interviewer evaluating a %s-level candidate.
The answer may be a transcript of a spoken response; ignore filler words and
minor transcription errors and judge the content only.

QUESTION (%s):
%s

CANDIDATE'S ANSWER:
%s

Score the answer from 0 to 10 for relevance, correctness, and depth at the
%s level, then give brief, specific feedback.

Respond with ONLY this JSON — no explanation, no markdown:
{"score": 0-10, "feedback": "...", "topic": "...", "key_points_covered": ["..."], "key_points_missed": ["..."]}`,
		role, level, a.Type, a.Question, a.Text, level)
}
