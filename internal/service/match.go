// internal/service/match.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mockmate/backend/internal/keypool"
	"github.com/mockmate/backend/internal/llm"
	"github.com/mockmate/backend/internal/parse"
	"github.com/mockmate/backend/internal/upstream"
)

// MatchService scores how well a candidate profile fits a job description,
// as a percentage.
type MatchService struct {
	keys    *keypool.Pool
	invoker llm.Invoker
	logger  *slog.Logger

	timeout time.Duration
}

func NewMatchService(keys *keypool.Pool, invoker llm.Invoker, logger *slog.Logger) *MatchService {
	return &MatchService{
		keys:    keys,
		invoker: invoker,
		logger:  logger,
		timeout: 60 * time.Second,
	}
}

// Match returns the profile/JD match percentage in [0, 100]. The model is
// asked for a bare percentage; the parser salvages one from whatever text
// comes back. No recoverable number is an upstream failure.
func (m *MatchService) Match(ctx context.Context, profile, jd string) (float64, error) {
	// Incoming request contexts carry no deadline; bound the wait so a
	// saturated key pool fails with ErrExhausted instead of blocking.
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	apiKey, err := m.keys.Acquire(ctx)
	if err != nil {
		return 0, err
	}

	prompt := fmt.Sprintf(`You are a skilled applicant tracking system. Given this candidate profile and job description, return ONLY the percentage match (e.g., "85%%"):

Profile:
%s

Job Description:
%s`, profile, jd)

	raw, err := m.invoker.Generate(ctx, apiKey, prompt)
	if err != nil {
		return 0, err
	}

	pct := parse.PartialPercent(raw, -1)
	if pct < 0 {
		m.logger.Error("no percentage in match response", "response_len", len(raw))
		return 0, upstream.Errorf("gemini", nil, "model returned no match percentage")
	}
	return pct, nil
}
