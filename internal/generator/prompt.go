// internal/generator/prompt.go
package generator

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the single shared generation prompt. Tier, duration,
// and difficulty only change interpolated parameters, never the structure.
func buildPrompt(req Request, cfg tierConfig, counts questionCounts) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are an expert technical interview coach. Generate technical questions for this candidate.

TEST CONFIGURATION:
- Duration: %d minutes
- Open-ended questions: %d
- Multiple-choice questions: %d
- Difficulty Level: %s - %s

Generate questions appropriate for %s level difficulty.
Each MCQ must have exactly 5 labelled options ("a." to "e.").
%s

Output format (STRICT JSON):
{
    "open_questions": ["Q1: ...", "Q2: ..."],
    "mcq": [
        {
            "question": "Technical concept question",
            "options": ["a. ...", "b. ...", "c. ...", "d. ...", "e. ..."]
        }
    ]
}

Only return this JSON. No extra text.
`,
		req.Duration, counts.Open, counts.MCQ,
		strings.ToUpper(string(req.Difficulty)), difficultyDescriptions[req.Difficulty],
		req.Difficulty, cfg.Focus)

	if highlights := ExtractHighlights(req.Profile, cfg.HighlightCap); len(highlights) > 0 {
		b.WriteString("\n=== Technical Highlights:\n")
		for _, h := range highlights {
			fmt.Fprintf(&b, "- %s\n", h)
		}
	}

	fmt.Fprintf(&b, "\n=== Candidate Profile:\n%s\n", req.Profile)

	if cfg.RequiresJD {
		fmt.Fprintf(&b, "\n=== Job Description:\n%s\n", req.JobDescription)
	}
	if cfg.UsesContext {
		context := req.Context
		if context == "" {
			context = "Technology company"
		}
		fmt.Fprintf(&b, "\n=== Organization Context:\n%s\n", context)
	}

	return b.String()
}
