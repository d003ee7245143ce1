package output

import (
	"encoding/json"

	"github.com/hide0128/finder/internal/core"
)

// jsonResult drops citations unless requested. Unknown values are kept as the
// raw sentinel.
type jsonResult struct {
	Index        int               `json:"index"`
	Name         string            `json:"name"`
	Info         *core.CompanyInfo `json:"info,omitempty"`
	Error        string            `json:"error,omitempty"`
	DomainStatus core.DomainStatus `json:"domainStatus,omitempty"`
}

func renderJSON(results []core.LookupResult, opts Options) ([]byte, error) {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		item := jsonResult{Index: r.Index, Name: r.Name, Error: r.Error, DomainStatus: r.DomainStatus}
		if r.Info != nil {
			info := *r.Info
			if !opts.Citations {
				info.SourceURLs = nil
			}
			item.Info = &info
		}
		out = append(out, item)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
