package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// TraceEntry is one provider round trip. Drivers trace request bodies only;
// API keys travel in headers or query strings and never appear here.
type TraceEntry struct {
	Timestamp   time.Time       `json:"timestamp"`
	Driver      string          `json:"driver"`
	Endpoint    string          `json:"endpoint"`
	Model       string          `json:"model,omitempty"`
	PromptSlug  string          `json:"prompt_slug,omitempty"`
	RequestBody json.RawMessage `json:"request_body,omitempty"`
	StatusCode  int             `json:"status_code,omitempty"`
	Response    json.RawMessage `json:"response,omitempty"`
	Error       string          `json:"error,omitempty"`
	DurationMs  int64           `json:"duration_ms"`
}

type tracer struct {
	mu   sync.Mutex
	file *os.File
}

var (
	activeMu sync.Mutex
	active   *tracer
)

// EnableTracing appends NDJSON trace entries to path until the returned func
// is called.
func EnableTracing(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec G304 -- trace path is user-provided
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}

	activeMu.Lock()
	prev := active
	active = &tracer{file: f}
	activeMu.Unlock()
	prev.close()

	return func() {
		activeMu.Lock()
		cur := active
		active = nil
		activeMu.Unlock()
		cur.close()
	}, nil
}

// IsTracingEnabled reports whether a trace file is open.
func IsTracingEnabled() bool {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active != nil
}

// Exchange captures a round trip for TraceExchange.
type Exchange struct {
	Driver     string
	Endpoint   string
	Model      string
	PromptSlug string
	Request    []byte
	Status     int
	Response   []byte
	Err        error
	Started    time.Time
}

// TraceExchange records ex when tracing is enabled. Non-JSON bodies are
// stored as JSON strings.
func TraceExchange(ex Exchange) {
	activeMu.Lock()
	t := active
	activeMu.Unlock()
	if t == nil {
		return
	}

	entry := TraceEntry{
		Timestamp:   time.Now().UTC(),
		Driver:      ex.Driver,
		Endpoint:    ex.Endpoint,
		Model:       ex.Model,
		PromptSlug:  ex.PromptSlug,
		RequestBody: asRawJSON(ex.Request),
		StatusCode:  ex.Status,
		Response:    asRawJSON(ex.Response),
	}
	if ex.Err != nil {
		entry.Error = ex.Err.Error()
	}
	if !ex.Started.IsZero() {
		entry.DurationMs = time.Since(ex.Started).Milliseconds()
	}
	t.write(entry)
}

func (t *tracer) write(entry TraceEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.file.Write(append(data, '\n'))
}

func (t *tracer) close() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.file.Close()
}

func asRawJSON(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return json.RawMessage(quoted)
}
