package openai

import (
	"fmt"
	"strings"

	"github.com/hide0128/finder/internal/ailink/driver"
)

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   *usage   `json:"usage,omitempty"`
}

type choice struct {
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type chatResponseMessage struct {
	Content     string       `json:"content"`
	Annotations []annotation `json:"annotations,omitempty"`
}

type annotation struct {
	Type        string       `json:"type"`
	URLCitation *urlCitation `json:"url_citation,omitempty"`
}

type urlCitation struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func toDriverResponse(resp *chatCompletionResponse) (*driver.Response, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is required")
	}
	if len(resp.Choices) == 0 {
		return &driver.Response{}, nil
	}

	first := resp.Choices[0]
	out := &driver.Response{
		Text:         first.Message.Content,
		FinishReason: first.FinishReason,
	}

	seen := make(map[string]bool)
	for _, a := range first.Message.Annotations {
		if a.URLCitation == nil {
			continue
		}
		uri := strings.TrimSpace(a.URLCitation.URL)
		if uri == "" || seen[uri] {
			continue
		}
		seen[uri] = true
		out.Citations = append(out.Citations, driver.Citation{URI: uri, Title: a.URLCitation.Title})
	}

	if resp.Usage != nil {
		out.Usage = &driver.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out, nil
}
