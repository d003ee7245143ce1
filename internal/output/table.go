package output

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/hide0128/finder/internal/core"
)

func renderTable(results []core.LookupResult, opts Options) string {
	verified := hasVerification(results)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	header := table.Row{ColumnCompany.Header(), ColumnDomain.Header(), ColumnPostal.Header()}
	if verified {
		header = append(header, "検証")
	}
	if opts.Citations {
		header = append(header, "出典")
	}
	t.AppendHeader(header)

	for _, r := range results {
		if !r.Succeeded() {
			continue
		}
		row := table.Row{
			opts.cell(r.Info, ColumnCompany),
			opts.cell(r.Info, ColumnDomain),
			opts.cell(r.Info, ColumnPostal),
		}
		if verified {
			row = append(row, domainStatusLabel(r.DomainStatus))
		}
		if opts.Citations {
			row = append(row, strings.Join(citationLines(r.Info), "\n"))
		}
		t.AppendRow(row)
	}

	return t.Render()
}
