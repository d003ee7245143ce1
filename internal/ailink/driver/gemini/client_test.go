package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hide0128/finder/internal/ailink/driver"
)

func testRequest() *driver.Request {
	return &driver.Request{
		Model: "gemini-2.5-flash",
		Messages: []driver.Message{
			{Role: "system", Text: "sys"},
			{Role: "user", Text: "株式会社テスト"},
		},
		WebSearch:      true,
		ResponseFormat: &driver.ResponseFormat{Type: "json_object"},
		Temperature:    driver.Float64(0.05),
		TopP:           driver.Float64(0.9),
		ThinkingBudget: driver.Int(0),
	}
}

func TestClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "").Complete(context.Background(), testRequest())
	require.Error(t, err)
	require.Contains(t, err.Error(), "api key")
}

func TestClientSendsGroundedRequestAndParsesCitations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		tools := payload["tools"].([]any)
		require.Len(t, tools, 1)
		require.Contains(t, tools[0].(map[string]any), "google_search")

		cfg := payload["generationConfig"].(map[string]any)
		require.InDelta(t, 0.05, cfg["temperature"], 1e-9)
		require.InDelta(t, 0.9, cfg["topP"], 1e-9)
		require.NotContains(t, cfg, "responseMimeType")
		require.Equal(t, map[string]any{"thinkingBudget": float64(0)}, cfg["thinkingConfig"])
		require.Equal(t, "sys", payload["systemInstruction"].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates":[{
				"content":{"role":"model","parts":[{"text":"{\"companyName\":\"x\","},{"text":"\"domain\":\"test.co.jp\",\"postalCode\":\"100-0001\"}"}]},
				"finishReason":"STOP",
				"groundingMetadata":{"groundingChunks":[
					{"web":{"uri":"https://test.co.jp/","title":"test.co.jp"}},
					{"web":{"uri":"  ","title":"blank"}},
					{}
				]}
			}],
			"usageMetadata":{"promptTokenCount":5,"candidatesTokenCount":7,"totalTokenCount":12}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	client.HTTPClient = server.Client()

	resp, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	require.Equal(t, "STOP", resp.FinishReason)
	require.JSONEq(t, `{"companyName":"x","domain":"test.co.jp","postalCode":"100-0001"}`, resp.Text)
	require.Equal(t, []driver.Citation{{URI: "https://test.co.jp/", Title: "test.co.jp"}}, resp.Citations)
	require.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestClientJSONModeWithoutSearch(t *testing.T) {
	req := testRequest()
	req.WebSearch = false

	payload, err := buildGenerateRequest(req)
	require.NoError(t, err)
	require.Empty(t, payload.Tools)
	require.Equal(t, "application/json", payload.GenerationConfig.ResponseMimeType)
}

func TestClientMapsInvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-key")
	client.HTTPClient = server.Client()

	_, err := client.Complete(context.Background(), testRequest())
	require.Error(t, err)

	var perr *driver.ProviderError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, http.StatusBadRequest, perr.StatusCode)
	require.Equal(t, "API key not valid. Please pass a valid API key.", perr.Message)
	require.True(t, perr.IsAuth())
}

func TestClientEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "k")
	client.HTTPClient = server.Client()

	resp, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	require.Empty(t, resp.Text)
}
