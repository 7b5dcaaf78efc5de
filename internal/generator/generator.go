// internal/generator/generator.go
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mockmate/backend/internal/domain/questionset"
	"github.com/mockmate/backend/internal/keypool"
	"github.com/mockmate/backend/internal/llm"
	"github.com/mockmate/backend/internal/parse"
	"github.com/mockmate/backend/internal/upstream"
)

var (
	// ErrInvalidRequest wraps tier/duration/difficulty validation failures.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrMissingJobDescription is returned when a JD-aware tier is requested
	// without job description text.
	ErrMissingJobDescription = errors.New("job description required for this tier")
)

// Request carries everything one generation call needs. Tier and difficulty
// are attributes of the request, not of the produced set.
type Request struct {
	Tier           Tier
	Profile        string
	JobDescription string
	Context        string
	Duration       int // minutes
	Difficulty     Difficulty
}

// Validate checks the request against the configuration tables.
func (r Request) Validate() error {
	if _, ok := tierConfigs[r.Tier]; !ok {
		return fmt.Errorf("%w: unknown tier %q", ErrInvalidRequest, r.Tier)
	}
	if _, ok := durationCounts[r.Duration]; !ok {
		return fmt.Errorf("%w: unsupported duration %d, use one of %v", ErrInvalidRequest, r.Duration, Durations())
	}
	if _, ok := difficultyDescriptions[r.Difficulty]; !ok {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, r.Difficulty)
	}
	if r.Profile == "" {
		return fmt.Errorf("%w: profile text is required", ErrInvalidRequest)
	}
	if tierConfigs[r.Tier].RequiresJD && r.JobDescription == "" {
		return ErrMissingJobDescription
	}
	return nil
}

// Generator produces question sets through the same key pool, model invoker,
// and parser the evaluation pipeline uses.
type Generator struct {
	keys    *keypool.Pool
	invoker llm.Invoker
	logger  *slog.Logger

	timeout time.Duration
}

func New(keys *keypool.Pool, invoker llm.Invoker, logger *slog.Logger) *Generator {
	return &Generator{
		keys:    keys,
		invoker: invoker,
		logger:  logger,
		timeout: 60 * time.Second,
	}
}

// Generate runs the shared generation routine for the requested tier. Unlike
// per-answer scoring there is no degraded fallback here: a generation call
// that cannot produce a well-formed set is an upstream failure the caller
// surfaces.
func (g *Generator) Generate(ctx context.Context, req Request) (*questionset.QuestionSet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Incoming request contexts carry no deadline; without a bound here a
	// saturated key pool would block the call forever.
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cfg := tierConfigs[req.Tier]
	counts := durationCounts[req.Duration]
	prompt := buildPrompt(req, cfg, counts)

	apiKey, err := g.keys.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := g.invoker.Generate(ctx, apiKey, prompt)
	if err != nil {
		return nil, err
	}

	var set questionset.QuestionSet
	if !parse.Decode(raw, &set) {
		g.logger.Error("unparseable generation output", "tier", req.Tier, "response_len", len(raw))
		return nil, upstream.Errorf("gemini", nil, "model returned no usable question set")
	}
	if err := set.Validate(); err != nil {
		return nil, upstream.Errorf("gemini", err, "malformed question set")
	}

	return &set, nil
}
