package driver

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTraceExchangeWritesNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")
	stop, err := EnableTracing(path)
	require.NoError(t, err)
	require.True(t, IsTracingEnabled())

	TraceExchange(Exchange{
		Driver:   "gemini",
		Endpoint: "/models/x:generateContent",
		Request:  []byte(`{"a":1}`),
		Status:   200,
		Response: []byte("not json"),
		Err:      errors.New("boom"),
		Started:  time.Now(),
	})
	stop()
	require.False(t, IsTracingEnabled())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry TraceEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "gemini", entry.Driver)
	require.JSONEq(t, `{"a":1}`, string(entry.RequestBody))
	require.JSONEq(t, `"not json"`, string(entry.Response))
	require.Equal(t, "boom", entry.Error)
}

func TestProviderErrorIsAuth(t *testing.T) {
	require.True(t, (&ProviderError{StatusCode: 401}).IsAuth())
	require.True(t, (&ProviderError{StatusCode: 400, Message: "API key not valid. Please pass a valid API key."}).IsAuth())
	require.False(t, (&ProviderError{StatusCode: 500, Message: "oops"}).IsAuth())
	require.False(t, (*ProviderError)(nil).IsAuth())
}
