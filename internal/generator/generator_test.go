package generator

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockmate/backend/internal/keypool"
	"github.com/mockmate/backend/internal/upstream"
)

const sampleProfile = `Built data pipelines with Kafka and Airflow
Led the planning of the annual team event
Deployed services on Kubernetes with Terraform
Implemented REST API backends in Go`

type fixedInvoker struct {
	response string
	prompts  []string
}

func (f *fixedInvoker) Generate(_ context.Context, _ string, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, nil
}

func validSetJSON() string {
	options := `["a. one", "b. two", "c. three", "d. four", "e. five"]`
	var mcq []string
	for i := 0; i < 5; i++ {
		mcq = append(mcq, `{"question": "MCQ?", "options": `+options+`}`)
	}
	return `{"open_questions": ["Q1", "Q2", "Q3", "Q4"], "mcq": [` + strings.Join(mcq, ",") + `]}`
}

func newTestGenerator(t *testing.T, invoker *fixedInvoker) *Generator {
	t.Helper()
	keys, err := keypool.New([]string{"k1"}, 100, time.Minute, time.Millisecond)
	require.NoError(t, err)
	return New(keys, invoker, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func baseRequest(tier Tier) Request {
	return Request{
		Tier:       tier,
		Profile:    sampleProfile,
		Duration:   30,
		Difficulty: DifficultyIntermediate,
	}
}

func TestGenerate_BasicTier(t *testing.T) {
	invoker := &fixedInvoker{response: validSetJSON()}
	gen := newTestGenerator(t, invoker)

	set, err := gen.Generate(context.Background(), baseRequest(TierBasic))
	require.NoError(t, err)
	assert.Len(t, set.OpenQuestions, 4)
	assert.Len(t, set.MCQ, 5)
}

func TestGenerate_ContextualWithoutJD(t *testing.T) {
	gen := newTestGenerator(t, &fixedInvoker{response: validSetJSON()})

	_, err := gen.Generate(context.Background(), baseRequest(TierContextual))
	assert.ErrorIs(t, err, ErrMissingJobDescription)
}

func TestGenerate_ComprehensiveWithoutJD(t *testing.T) {
	gen := newTestGenerator(t, &fixedInvoker{response: validSetJSON()})

	_, err := gen.Generate(context.Background(), baseRequest(TierComprehensive))
	assert.ErrorIs(t, err, ErrMissingJobDescription)
}

func TestGenerate_SaturatedPoolFailsWithinDeadline(t *testing.T) {
	keys, err := keypool.New([]string{"k1"}, 1, time.Hour, time.Millisecond)
	require.NoError(t, err)
	_, err = keys.Acquire(context.Background())
	require.NoError(t, err)

	gen := New(keys, &fixedInvoker{response: validSetJSON()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	gen.timeout = 50 * time.Millisecond

	// The caller's context carries no deadline; the generator must bound the
	// wait itself instead of blocking on the exhausted pool.
	start := time.Now()
	_, err = gen.Generate(context.Background(), baseRequest(TierBasic))
	require.Error(t, err)
	assert.ErrorIs(t, err, keypool.ErrExhausted)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGenerate_ValidationFailures(t *testing.T) {
	gen := newTestGenerator(t, &fixedInvoker{response: validSetJSON()})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"unknown tier", func(r *Request) { r.Tier = "platinum" }},
		{"unsupported duration", func(r *Request) { r.Duration = 45 }},
		{"unknown difficulty", func(r *Request) { r.Difficulty = "hardcore" }},
		{"empty profile", func(r *Request) { r.Profile = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest(TierBasic)
			tt.mutate(&req)
			_, err := gen.Generate(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestGenerate_PromptReflectsDurationTable(t *testing.T) {
	invoker := &fixedInvoker{response: validSetJSON()}
	gen := newTestGenerator(t, invoker)

	req := baseRequest(TierBasic)
	req.Duration = 60
	_, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, invoker.prompts, 1)
	assert.Contains(t, invoker.prompts[0], "Open-ended questions: 8")
	assert.Contains(t, invoker.prompts[0], "Multiple-choice questions: 10")
}

func TestGenerate_ContextualPromptIncludesJD(t *testing.T) {
	invoker := &fixedInvoker{response: validSetJSON()}
	gen := newTestGenerator(t, invoker)

	req := baseRequest(TierContextual)
	req.JobDescription = "Senior Go engineer, Kubernetes experience required"
	_, err := gen.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, invoker.prompts[0], "Kubernetes experience required")
}

func TestGenerate_UnparseableOutputIsUpstreamError(t *testing.T) {
	gen := newTestGenerator(t, &fixedInvoker{response: "I cannot help with that."})

	_, err := gen.Generate(context.Background(), baseRequest(TierBasic))
	require.Error(t, err)
	var upErr *upstream.Error
	assert.ErrorAs(t, err, &upErr)
}

func TestGenerate_WrongOptionCountRejected(t *testing.T) {
	bad := `{"open_questions": ["Q1"], "mcq": [{"question": "MCQ?", "options": ["a. one", "b. two"]}]}`
	gen := newTestGenerator(t, &fixedInvoker{response: bad})

	_, err := gen.Generate(context.Background(), baseRequest(TierBasic))
	require.Error(t, err)
	var upErr *upstream.Error
	assert.ErrorAs(t, err, &upErr)
}

func TestExtractHighlights(t *testing.T) {
	got := ExtractHighlights(sampleProfile, 5)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "Kafka")
	for _, h := range got {
		assert.NotContains(t, strings.ToLower(h), "planning")
	}
}

func TestExtractHighlights_CapRespected(t *testing.T) {
	got := ExtractHighlights(sampleProfile, 2)
	assert.Len(t, got, 2)
}
