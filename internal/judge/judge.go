// Package judge wraps the external language-model oracle that decides
// whether a free-text answer means the same thing as a canonical
// definition. The oracle is consulted, never trusted with control flow:
// every failure mode collapses to Unavailable, which graders treat as
// not-equivalent.
package judge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rajatraina/word-quest-game/internal/llm"
)

// Verdict is the outcome of one equivalence check.
type Verdict int

const (
	// NotEquivalent means the oracle judged the meanings different.
	NotEquivalent Verdict = iota

	// Equivalent means the oracle judged the meanings the same.
	Equivalent

	// Unavailable means the oracle could not be consulted (timeout,
	// provider down, malformed reply). Callers degrade this to
	// NotEquivalent; it is kept distinct so the failure is observable.
	Unavailable
)

func (v Verdict) String() string {
	switch v {
	case Equivalent:
		return "equivalent"
	case NotEquivalent:
		return "not-equivalent"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// verdictSchema is the structured reply we require from the oracle.
var verdictSchema = &llm.Schema{
	Name:        "equivalence-verdict",
	Description: "Whether two definitions have equivalent meanings",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"equivalent": map[string]any{
				"type":        "boolean",
				"description": "true if the two definitions mean the same thing",
			},
		},
		"required": []any{"equivalent"},
	},
}

const systemPrompt = "You judge whether a student's definition of a word " +
	"matches the dictionary definition. Accept paraphrases and informal " +
	"wording; reject answers that describe something else."

// Judge consults the oracle with a bounded timeout.
type Judge struct {
	provider llm.Provider
	timeout  time.Duration
}

// New creates a Judge. A zero timeout defaults to 10 seconds.
func New(provider llm.Provider, timeout time.Duration) *Judge {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Judge{provider: provider, timeout: timeout}
}

// Equivalent asks whether answer and canonical carry the same meaning.
// Never returns an error: oracle failures become Unavailable.
func (j *Judge) Equivalent(ctx context.Context, answer, canonical string) Verdict {
	if j == nil || j.provider == nil {
		return Unavailable
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	resp, err := j.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Prompt: "Are these two definitions equivalent meanings? A: '" + answer +
			"' B: '" + canonical + "'",
		Schema:    verdictSchema,
		MaxTokens: 64,
	})
	if err != nil {
		return Unavailable
	}

	var verdict struct {
		Equivalent bool `json:"equivalent"`
	}
	if err := json.Unmarshal(resp.Content, &verdict); err != nil {
		return Unavailable
	}

	if verdict.Equivalent {
		return Equivalent
	}
	return NotEquivalent
}

// Warm fires a throwaway request so the first real grading turn doesn't
// pay the oracle's cold-start cost. Detached and best-effort; the result
// is discarded.
func (j *Judge) Warm(ctx context.Context) {
	if j == nil || j.provider == nil {
		return
	}
	go func() {
		warmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), j.timeout)
		defer cancel()
		_ = j.Equivalent(warmCtx, "fond of company", "enjoys being around people")
	}()
}
