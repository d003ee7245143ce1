package output

import (
	"strings"

	"github.com/hide0128/finder/internal/core"
)

// renderTSV produces clipboard text: one tab separated line per successful
// lookup with only the selected columns.
func renderTSV(results []core.LookupResult, opts Options) string {
	columns := opts.columns()
	lines := make([]string, 0, len(results))
	for _, info := range successes(results) {
		cells := make([]string, 0, len(columns))
		for _, c := range columns {
			cells = append(cells, opts.cell(info, c))
		}
		lines = append(lines, strings.Join(cells, "\t"))
	}
	return strings.Join(lines, "\n")
}
