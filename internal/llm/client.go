// internal/llm/client.go
package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mockmate/backend/internal/upstream"
)

// Invoker sends a prompt to a generative model under a specific API key and
// returns the raw text response. The key is per-call because the key pool
// rotates credentials between requests. Implementations may call Gemini, or
// return canned results (for tests).
type Invoker interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// Gemini invokes the Google Gemini API through the official client, keeping
// one client per API key alive for reuse across calls.
type Gemini struct {
	model string

	mu      sync.Mutex
	clients map[string]*genai.Client
}

// Compile-time check: *Gemini satisfies Invoker.
var _ Invoker = (*Gemini)(nil)

func NewGemini(model string) *Gemini {
	return &Gemini{
		model:   model,
		clients: make(map[string]*genai.Client),
	}
}

// Generate sends the prompt and concatenates the text parts of the first
// candidate. Failures come back as *upstream.Error.
func (g *Gemini) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	client, err := g.clientFor(ctx, apiKey)
	if err != nil {
		return "", upstream.Errorf("gemini", err, "create client")
	}

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.1) // low temperature for consistent grading

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", upstream.Errorf("gemini", err, "generate content")
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *Gemini) clientFor(ctx context.Context, apiKey string) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if client, ok := g.clients[apiKey]; ok {
		return client, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	g.clients[apiKey] = client
	return client, nil
}

// Close releases every cached client.
func (g *Gemini) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var first error
	for key, client := range g.clients {
		if err := client.Close(); err != nil && first == nil {
			first = err
		}
		delete(g.clients, key)
	}
	return first
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", upstream.Errorf("gemini", nil, "no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", upstream.Errorf("gemini", nil, "no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", upstream.Errorf("gemini", nil, "no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
