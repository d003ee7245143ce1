package output

import (
	"fmt"
	"strings"

	"github.com/hide0128/finder/internal/core"
)

func renderMarkdown(results []core.LookupResult, opts Options) string {
	verified := hasVerification(results)

	headers := []string{ColumnCompany.Header(), ColumnDomain.Header(), ColumnPostal.Header()}
	if verified {
		headers = append(headers, "検証")
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("------|", len(headers)) + "\n")

	for _, r := range results {
		if !r.Succeeded() {
			continue
		}
		cells := []string{
			escapeMarkdownCell(opts.cell(r.Info, ColumnCompany)),
			escapeMarkdownCell(opts.cell(r.Info, ColumnDomain)),
			escapeMarkdownCell(opts.cell(r.Info, ColumnPostal)),
		}
		if verified {
			cells = append(cells, escapeMarkdownCell(domainStatusLabel(r.DomainStatus)))
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	if opts.Citations {
		for _, info := range successes(results) {
			if len(info.SourceURLs) == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("\n### %s\n\n", escapeMarkdownCell(info.CompanyName)))
			for _, c := range info.SourceURLs {
				sb.WriteString(fmt.Sprintf("- [%s](%s)\n", escapeMarkdownCell(c.Title), c.URI))
			}
		}
	}
	return sb.String()
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
