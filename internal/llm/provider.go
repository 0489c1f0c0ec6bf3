package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over the external language-model oracle.
// Word Quest only ever does single-turn generation: one prompt in, one
// structured reply out.
type Provider interface {
	// Generate sends a prompt to the model and returns its reply.
	// When the request carries a Schema, the reply Content is JSON that
	// has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single-turn generation request.
type Request struct {
	// System sets the model's role and constraints. Optional.
	System string

	// Prompt is the user message.
	Prompt string

	// Schema is the JSON Schema the reply must conform to. When set, the
	// provider uses its native structured-output mechanism and the reply
	// is validated locally before being returned. When nil, Content is
	// the raw text reply.
	Schema *Schema

	// MaxTokens caps the reply length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Default 0 (deterministic).
	Temperature float64
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name
	// for OpenAI). Kebab-case, e.g. "equivalence-verdict".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the reply. Validated JSON when a Schema was requested,
	// otherwise the raw text wrapped as a JSON string.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to: "end", "max_tokens", "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// Not in the map: use as-is (allows direct model IDs).
	return name
}
