package core

import "time"

// DefaultUnknownSentinel is the in-band marker a lookup provider returns when
// a field could not be determined.
const DefaultUnknownSentinel = "情報なし"

// Citation is one evidence source reported by the lookup provider.
type Citation struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// CompanyInfo is the record a successful lookup produces.
type CompanyInfo struct {
	CompanyName string     `json:"companyName"`
	Domain      string     `json:"domain"`
	PostalCode  string     `json:"postalCode"`
	SourceURLs  []Citation `json:"sourceUrls,omitempty"`
}

// DomainStatus reports the outcome of an optional registry verification.
type DomainStatus string

const (
	DomainStatusUnchecked  DomainStatus = ""
	DomainStatusRegistered DomainStatus = "registered"
	DomainStatusNotFound   DomainStatus = "not_found"
	DomainStatusSkipped    DomainStatus = "skipped"
	DomainStatusError      DomainStatus = "error"
)

// LookupResult is the settled outcome for one candidate. At most one of Info
// or Error is set; neither means the provider returned nothing.
type LookupResult struct {
	Index        int           `json:"index"`
	Name         string        `json:"name"`
	Info         *CompanyInfo  `json:"info,omitempty"`
	Error        string        `json:"error,omitempty"`
	DomainStatus DomainStatus  `json:"domain_status,omitempty"`
	Duration     time.Duration `json:"duration_ns,omitempty"`
	CompletedAt  time.Time     `json:"completed_at"`
}

// Succeeded reports whether the lookup produced company info.
func (r *LookupResult) Succeeded() bool {
	return r != nil && r.Info != nil && r.Error == ""
}

// IsUnknown reports whether value is empty or equals the configured sentinel.
func IsUnknown(value, sentinel string) bool {
	if sentinel == "" {
		sentinel = DefaultUnknownSentinel
	}
	return value == "" || value == sentinel
}
