package ailink

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fulmenhq/gofulmen/schema"

	"github.com/hide0128/finder/internal/ailink/driver"
	"github.com/hide0128/finder/internal/core"
)

var fencePattern = regexp.MustCompile("(?is)^```(?:json)?\\s*\\n?(.*?)\\n?\\s*```$")

// stripFence removes a surrounding markdown code fence, if any.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// parseCompanyInfo decodes a provider reply into CompanyInfo. All three fields
// must be present as strings. The searched name is echoed into CompanyName.
func (s *Service) parseCompanyInfo(name string, resp *driver.Response, responseSchema map[string]any) (*core.CompanyInfo, error) {
	if resp == nil || strings.TrimSpace(resp.Text) == "" {
		return nil, &ResponseError{Kind: ResponseEmpty}
	}
	raw := captureRaw(s.providerConfig(), resp.Text)

	body := stripFence(resp.Text)
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, &ResponseError{Kind: ResponseMalformed, Err: err, Raw: raw}
	}

	if len(responseSchema) > 0 {
		if err := validateReply([]byte(body), responseSchema); err != nil {
			return nil, &ResponseError{Kind: ResponseShape, Err: err, Raw: raw}
		}
	}

	fields := make(map[string]string, 3)
	for _, key := range []string{"companyName", "domain", "postalCode"} {
		value, ok := payload[key].(string)
		if !ok {
			return nil, &ResponseError{Kind: ResponseShape, Err: fmt.Errorf("field %q missing or not a string", key), Raw: raw}
		}
		fields[key] = value
	}

	info := &core.CompanyInfo{
		CompanyName: name,
		Domain:      strings.TrimSpace(fields["domain"]),
		PostalCode:  strings.TrimSpace(fields["postalCode"]),
	}
	for _, c := range dedupeCitations(resp.Citations) {
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = c.URI
		}
		info.SourceURLs = append(info.SourceURLs, core.Citation{URI: c.URI, Title: title})
	}
	return info, nil
}

func validateReply(payload []byte, responseSchema map[string]any) error {
	schemaBytes, err := json.Marshal(responseSchema)
	if err != nil {
		return fmt.Errorf("marshal response schema: %w", err)
	}
	validator, err := schema.NewValidator(schemaBytes)
	if err != nil {
		return fmt.Errorf("compile response schema: %w", err)
	}
	diagnostics, err := validator.ValidateJSON(payload)
	if err != nil {
		return err
	}
	if len(diagnostics) > 0 {
		return fmt.Errorf("response schema: %s", diagnostics[0].Message)
	}
	return nil
}

func dedupeCitations(in []driver.Citation) []driver.Citation {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]driver.Citation, 0, len(in))
	for _, c := range in {
		uri := strings.TrimSpace(c.URI)
		if uri == "" {
			continue
		}
		if _, ok := seen[uri]; ok {
			continue
		}
		seen[uri] = struct{}{}
		out = append(out, driver.Citation{URI: uri, Title: c.Title})
	}
	return out
}
