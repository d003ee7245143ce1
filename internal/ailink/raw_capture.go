package ailink

import "encoding/json"

// captureRaw returns raw truncated to the configured limit, or nil when raw
// capture is off.
func captureRaw(cfg Config, raw string) json.RawMessage {
	if !cfg.Debug.CaptureRawEnabled || raw == "" {
		return nil
	}
	return truncateJSONRaw(json.RawMessage(raw), cfg.Debug.CaptureRawMaxBytes)
}

func truncateJSONRaw(input json.RawMessage, max int) json.RawMessage {
	if max <= 0 {
		return nil
	}
	if len(input) <= max {
		return input
	}
	out := make(json.RawMessage, 0, max)
	out = append(out, input[:max]...)
	return out
}
