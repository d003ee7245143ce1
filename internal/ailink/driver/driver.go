package driver

import (
	"context"
	"strings"
)

// Driver is a completion provider.
type Driver interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *Request) (*Response, error)
	// Name returns the driver identifier (e.g., "gemini").
	Name() string
	// Capabilities returns what this driver supports.
	Capabilities() Capabilities
}

// Capabilities describes driver features.
type Capabilities struct {
	// SupportsSearch means the provider can ground answers in web search and
	// report the pages it used.
	SupportsSearch bool
	SupportsJSON   bool
}

// Message is a single text turn.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ResponseFormat asks the provider for a structured reply.
type ResponseFormat struct {
	Type string `json:"type"` // "text", "json_object"
}

// Usage contains token usage statistics.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Request is a provider-agnostic completion request.
type Request struct {
	Model    string
	Messages []Message
	// WebSearch enables provider-side search grounding where supported.
	WebSearch      bool
	ResponseFormat *ResponseFormat
	Temperature    *float64
	TopP           *float64
	// ThinkingBudget of zero disables extended reasoning on providers that
	// support it; nil leaves the provider default.
	ThinkingBudget *int
	MaxTokens      *int
	PromptSlug     string
}

// Citation is a source page the provider consulted.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Response is a provider-agnostic completion response.
type Response struct {
	Text         string
	FinishReason string
	Usage        *Usage
	Citations    []Citation
}

// SystemAndUser splits messages into the concatenated system text and the
// remaining turns.
func SystemAndUser(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, msg := range messages {
		if msg.Role == "system" {
			system = append(system, msg.Text)
			continue
		}
		rest = append(rest, msg)
	}
	return strings.Join(system, "\n\n"), rest
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
