package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hide0128/finder/internal/ailink/driver"
)

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
}

type candidate struct {
	Content           *contentPayload    `json:"content,omitempty"`
	FinishReason      string             `json:"finishReason"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type groundingMetadata struct {
	GroundingChunks []groundingChunk `json:"groundingChunks"`
}

type groundingChunk struct {
	Web *webSource `json:"web,omitempty"`
}

type webSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func toDriverResponse(resp *generateResponse) (*driver.Response, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is required")
	}
	// No candidates (e.g. a blocked prompt) surfaces as empty text; callers
	// decide how to report it.
	if len(resp.Candidates) == 0 {
		return &driver.Response{}, nil
	}

	first := resp.Candidates[0]
	out := &driver.Response{FinishReason: first.FinishReason}

	if first.Content != nil {
		texts := make([]string, 0, len(first.Content.Parts))
		for _, p := range first.Content.Parts {
			texts = append(texts, p.Text)
		}
		out.Text = strings.Join(texts, "")
	}

	if first.GroundingMetadata != nil {
		for _, chunk := range first.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || strings.TrimSpace(chunk.Web.URI) == "" {
				continue
			}
			out.Citations = append(out.Citations, driver.Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}

	if resp.UsageMetadata != nil {
		out.Usage = &driver.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	return out, nil
}

// errorMessage extracts error.message from a Gemini error body, falling back
// to the trimmed body.
func errorMessage(body []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && strings.TrimSpace(env.Error.Message) != "" {
		return strings.TrimSpace(env.Error.Message)
	}
	return strings.TrimSpace(string(body))
}
