package output

import (
	"fmt"
	"strings"

	"github.com/hide0128/finder/internal/core"
	"github.com/hide0128/finder/internal/metrics"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTSV      Format = "tsv"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatTSV), "clipboard":
		return FormatTSV, nil
	case string(FormatXLSX), "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Column is one exportable field of a CompanyInfo.
type Column string

const (
	ColumnCompany Column = "company"
	ColumnDomain  Column = "domain"
	ColumnPostal  Column = "postal"
)

// AllColumns is the fixed export order.
var AllColumns = []Column{ColumnCompany, ColumnDomain, ColumnPostal}

var columnHeaders = map[Column]string{
	ColumnCompany: "会社名",
	ColumnDomain:  "ドメイン",
	ColumnPostal:  "郵便番号",
}

// Header returns the Japanese column heading.
func (c Column) Header() string {
	return columnHeaders[c]
}

// ParseColumns reads a comma separated column selection. The result always
// follows AllColumns order regardless of input order; empty input selects all.
func ParseColumns(value string) ([]Column, error) {
	if strings.TrimSpace(value) == "" {
		return AllColumns, nil
	}
	selected := map[Column]bool{}
	for _, raw := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "":
			continue
		case "company", "companyname", "name":
			selected[ColumnCompany] = true
		case "domain":
			selected[ColumnDomain] = true
		case "postal", "postalcode", "zip":
			selected[ColumnPostal] = true
		default:
			return nil, fmt.Errorf("unknown column: %s", raw)
		}
	}
	return orderColumns(selected), nil
}

func orderColumns(selected map[Column]bool) []Column {
	out := make([]Column, 0, len(AllColumns))
	for _, c := range AllColumns {
		if selected[c] {
			out = append(out, c)
		}
	}
	return out
}

// Options tune rendering.
type Options struct {
	// Sentinel is the in-band unknown marker; empty means the default.
	Sentinel string
	// BlankUnknown renders the sentinel as an empty cell.
	BlankUnknown bool
	// Citations adds source URLs to table, markdown and json output.
	Citations bool
	// Columns limits tsv and xlsx output; nil means all.
	Columns []Column
}

func (o Options) sentinel() string {
	if o.Sentinel != "" {
		return o.Sentinel
	}
	return core.DefaultUnknownSentinel
}

func (o Options) columns() []Column {
	if len(o.Columns) == 0 {
		return AllColumns
	}
	selected := map[Column]bool{}
	for _, c := range o.Columns {
		selected[c] = true
	}
	return orderColumns(selected)
}

// cell returns the display value for c, honoring BlankUnknown.
func (o Options) cell(info *core.CompanyInfo, c Column) string {
	var value string
	switch c {
	case ColumnCompany:
		return info.CompanyName
	case ColumnDomain:
		value = info.Domain
	case ColumnPostal:
		value = info.PostalCode
	}
	if o.BlankUnknown && core.IsUnknown(value, o.sentinel()) {
		return ""
	}
	return value
}

// Render writes results in format. Only successful lookups become rows in
// table, markdown, tsv and xlsx output; json carries every result.
func Render(format Format, results []core.LookupResult, opts Options) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case FormatJSON:
		out, err = renderJSON(results, opts)
	case FormatMarkdown:
		out = []byte(renderMarkdown(results, opts))
	case FormatTSV:
		out = []byte(renderTSV(results, opts))
	case FormatXLSX:
		out, err = renderXLSX(results, opts)
	case FormatTable, "":
		out = []byte(renderTable(results, opts))
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	metrics.RecordExport(string(format))
	return out, nil
}

func successes(results []core.LookupResult) []*core.CompanyInfo {
	infos := make([]*core.CompanyInfo, 0, len(results))
	for i := range results {
		if results[i].Succeeded() {
			infos = append(infos, results[i].Info)
		}
	}
	return infos
}

func hasVerification(results []core.LookupResult) bool {
	for _, r := range results {
		if r.Succeeded() && r.DomainStatus != core.DomainStatusUnchecked {
			return true
		}
	}
	return false
}

var domainStatusLabels = map[core.DomainStatus]string{
	core.DomainStatusRegistered: "登録済み",
	core.DomainStatusNotFound:   "未登録",
	core.DomainStatusSkipped:    "-",
	core.DomainStatusError:      "確認失敗",
}

func domainStatusLabel(status core.DomainStatus) string {
	return domainStatusLabels[status]
}

func citationLines(info *core.CompanyInfo) []string {
	lines := make([]string, 0, len(info.SourceURLs))
	for _, c := range info.SourceURLs {
		if c.Title != "" && c.Title != c.URI {
			lines = append(lines, c.Title+" <"+c.URI+">")
			continue
		}
		lines = append(lines, c.URI)
	}
	return lines
}
