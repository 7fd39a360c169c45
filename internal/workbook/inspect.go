// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package workbook

import "github.com/tfctl/bomctl/internal/table"

// SheetInfo summarizes one sheet for listing.
type SheetInfo struct {
	Index   int      `json:"index" yaml:"index"`
	Name    string   `json:"name" yaml:"name"`
	Rows    int      `json:"rows" yaml:"rows"`
	Columns []string `json:"columns" yaml:"columns"`
}

// Inspect lists the sheets of wb in order.
func Inspect(wb table.Workbook) []SheetInfo {
	out := make([]SheetInfo, 0, len(wb.Sheets))
	for i, s := range wb.Sheets {
		out = append(out, SheetInfo{
			Index:   i,
			Name:    s.Name,
			Rows:    s.Len(),
			Columns: append([]string(nil), s.Columns...),
		})
	}
	return out
}

// HasColumn reports whether any sheet of wb has column.
func HasColumn(wb table.Workbook, column string) bool {
	for _, s := range wb.Sheets {
		if s.Has(column) {
			return true
		}
	}
	return false
}
