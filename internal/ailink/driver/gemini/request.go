package gemini

import (
	"fmt"
	"strings"

	"github.com/hide0128/finder/internal/ailink/driver"
)

type generateRequest struct {
	SystemInstruction *contentPayload   `json:"systemInstruction,omitempty"`
	Contents          []contentPayload  `json:"contents"`
	Tools             []toolPayload     `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type contentPayload struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type toolPayload struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generationConfig struct {
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"topP,omitempty"`
	MaxOutputTokens  *int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ThinkingConfig   *thinkingConfig `json:"thinkingConfig,omitempty"`
}

type thinkingConfig struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

func buildGenerateRequest(req *driver.Request) (*generateRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("request is required")
	}
	if strings.TrimSpace(req.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}

	system, turns := driver.SystemAndUser(req.Messages)
	if len(turns) == 0 && strings.TrimSpace(system) == "" {
		return nil, fmt.Errorf("messages are required")
	}

	payload := &generateRequest{}
	if strings.TrimSpace(system) != "" {
		payload.SystemInstruction = &contentPayload{Parts: []part{{Text: system}}}
	}
	for _, msg := range turns {
		role := "user"
		if msg.Role == "assistant" || msg.Role == "model" {
			role = "model"
		}
		payload.Contents = append(payload.Contents, contentPayload{Role: role, Parts: []part{{Text: msg.Text}}})
	}
	if len(payload.Contents) == 0 {
		// Gemini requires at least one content turn.
		payload.Contents = []contentPayload{{Role: "user", Parts: []part{{Text: system}}}}
		payload.SystemInstruction = nil
	}

	cfg := &generationConfig{
		Temperature:     req.Temperature,
		TopP:            req.TopP,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.ThinkingBudget != nil {
		cfg.ThinkingConfig = &thinkingConfig{ThinkingBudget: *req.ThinkingBudget}
	}

	if req.WebSearch {
		payload.Tools = []toolPayload{{GoogleSearch: &struct{}{}}}
	} else if req.ResponseFormat != nil && req.ResponseFormat.Type == "json_object" {
		// JSON mode cannot be combined with search grounding.
		cfg.ResponseMimeType = "application/json"
	}
	payload.GenerationConfig = cfg

	return payload, nil
}
