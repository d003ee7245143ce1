package driver

import (
	"fmt"
	"strings"
)

// ProviderError is returned when a provider responds with a non-2xx status.
//
// RawResponse holds the provider body and must never include API keys.
type ProviderError struct {
	Provider    string
	StatusCode  int
	Message     string
	RawResponse []byte
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "provider error"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s request failed: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s request failed: %s", e.Provider, e.Message)
}

// IsAuth reports whether the provider rejected the credential. Some providers
// answer an invalid key with 400 and an "API key not valid" message.
func (e *ProviderError) IsAuth() bool {
	if e == nil {
		return false
	}
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return true
	}
	msg := strings.ToLower(e.Message)
	return strings.Contains(msg, "api key not valid") || strings.Contains(msg, "api_key_invalid")
}
