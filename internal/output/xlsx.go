package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"

	"github.com/hide0128/finder/internal/core"
)

const (
	// SheetName is the worksheet holding the results.
	SheetName = "企業情報"
	// DefaultXLSXFile is the file name used when none is given.
	DefaultXLSXFile = "企業情報検索結果.xlsx"
)

var minColumnWidths = map[Column]int{
	ColumnCompany: 20,
	ColumnDomain:  25,
	ColumnPostal:  10,
}

func renderXLSX(results []core.LookupResult, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close() // nolint:errcheck // in-memory workbook

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	columns := opts.columns()
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = max(minColumnWidths[c], displayWidth(c.Header()))
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, c.Header()); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return nil, err
		}
	}

	for row, info := range successes(results) {
		for i, c := range columns {
			value := opts.cell(info, c)
			widths[i] = max(widths[i], displayWidth(value))
			cell, err := excelize.CoordinatesToCellName(i+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, col, col, float64(w)); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// displayWidth counts East Asian wide and fullwidth runes as two cells.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
