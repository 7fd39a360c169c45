// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package workbook

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tfctl/bomctl/internal/differ"
	"github.com/tfctl/bomctl/internal/engine"
	"github.com/tfctl/bomctl/internal/log"
)

// Palette holds the fill colors used to highlight a report, as #RRGGBB.
type Palette struct {
	Modified string
	Removed  string
	Added    string
}

// DefaultPalette is gold for changed cells, salmon for removed keys and
// mediumseagreen for added keys.
var DefaultPalette = Palette{
	Modified: "#FFD700",
	Removed:  "#FA8072",
	Added:    "#3CB371",
}

const colWidth = 22

// SheetName is the output sheet name for the i-th (zero based) comparison.
func SheetName(i int) string {
	return fmt.Sprintf("Sheet%d", i+1)
}

type styles struct {
	header, plain, modified, removed, added int
}

func newStyles(f *excelize.File, p Palette) (styles, error) {
	var s styles
	wrap := &excelize.Alignment{WrapText: true, Vertical: "top"}

	fill := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: wrap,
		})
	}

	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: wrap}); err != nil {
		return s, err
	}
	if s.plain, err = f.NewStyle(&excelize.Style{Alignment: wrap}); err != nil {
		return s, err
	}
	if s.modified, err = fill(p.Modified); err != nil {
		return s, err
	}
	if s.removed, err = fill(p.Removed); err != nil {
		return s, err
	}
	if s.added, err = fill(p.Added); err != nil {
		return s, err
	}
	return s, nil
}

// Write saves rep as an xlsx workbook at path, one sheet per compared sheet
// pair. Any rendered change is filled with the modified color. The key cell of
// a removed or added record gets the removed or added color.
func Write(path string, rep *engine.Report, p Palette) error {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f, p)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	for i, sd := range rep.Sheets {
		name := SheetName(i)
		if i > 0 {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("failed to add sheet %s: %w", name, err)
			}
		}
		if err := writeSheet(f, name, sd, rep.Key, st); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	log.Debugf("report written: path=%s sheets=%d", path, len(rep.Sheets))
	return nil
}

func writeSheet(f *excelize.File, name string, sd engine.SheetDiff, key string, st styles) error {
	for j, col := range sd.Columns {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, col); err != nil {
			return err
		}
		if err := f.SetCellStyle(name, cell, cell, st.header); err != nil {
			return err
		}
	}

	for i, rec := range sd.Records {
		for j, c := range rec.Cells {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}

			if c.Kind == differ.Unchanged {
				if v := c.Value(); !v.IsNull() {
					err = f.SetCellValue(name, cell, v.Interface())
				}
			} else {
				err = f.SetCellValue(name, cell, c.Render())
			}
			if err != nil {
				return err
			}

			if err := f.SetCellStyle(name, cell, cell, cellStyle(rec, c, key, sd.HasKey(), st)); err != nil {
				return err
			}
		}
	}

	if len(sd.Columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(sd.Columns))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, "A", last, colWidth); err != nil {
			return err
		}
	}
	return nil
}

func cellStyle(rec differ.Record, c differ.Cell, key string, hasKey bool, st styles) int {
	if hasKey && c.Column == key {
		switch {
		case rec.Class == differ.ClassRemoved && c.Kind == differ.Removed:
			return st.removed
		case rec.Class == differ.ClassAdded && c.Kind == differ.Added:
			return st.added
		}
	}
	if strings.Contains(c.Render(), strings.TrimSpace(differ.Arrow)) {
		return st.modified
	}
	return st.plain
}
