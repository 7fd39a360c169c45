// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package workbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tfctl/bomctl/internal/aws"
	"github.com/tfctl/bomctl/internal/log"
	"github.com/tfctl/bomctl/internal/table"
)

var (
	// ErrUnsupportedSource is returned for anything that is not an .xlsx file
	// or object.
	ErrUnsupportedSource = errors.New("unsupported workbook source")

	// ErrNoSheets is returned for a workbook without any worksheet.
	ErrNoSheets = errors.New("workbook has no sheets")
)

// Extension is the only workbook format accepted.
const Extension = ".xlsx"

type options struct {
	aws    []aws.Option
	getter aws.ObjectGetter
}

// Option customizes Open.
type Option func(*options)

// WithAWS passes config overrides through to the S3 download.
func WithAWS(opts ...aws.Option) Option {
	return func(o *options) { o.aws = append(o.aws, opts...) }
}

// WithObjectGetter replaces the S3 client used for s3:// sources.
func WithObjectGetter(g aws.ObjectGetter) Option {
	return func(o *options) { o.getter = g }
}

// IsWorkbook reports whether name carries the .xlsx extension. It works for
// local paths and s3 keys alike.
func IsWorkbook(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}

// Open reads every sheet of the workbook at src, which is either a local
// path or an s3://bucket/key URI.
func Open(ctx context.Context, src string, opts ...Option) (table.Workbook, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if !IsWorkbook(src) {
		return table.Workbook{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, src)
	}

	var (
		f   *excelize.File
		err error
	)
	if aws.IsURI(src) {
		var body []byte
		if o.getter != nil {
			body, err = aws.Fetch(ctx, o.getter, src)
		} else {
			body, err = aws.FetchObject(ctx, src, o.aws...)
		}
		if err != nil {
			return table.Workbook{}, err
		}
		f, err = excelize.OpenReader(bytes.NewReader(body))
	} else {
		f, err = excelize.OpenFile(src)
	}
	if err != nil {
		return table.Workbook{}, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer f.Close()

	return Read(f, src)
}

// Read converts every worksheet of an open file, in workbook order.
func Read(f *excelize.File, source string) (table.Workbook, error) {
	names := f.GetSheetList()
	if len(names) == 0 {
		return table.Workbook{}, fmt.Errorf("%w: %s", ErrNoSheets, source)
	}

	wb := table.Workbook{Source: source, Sheets: make([]table.Sheet, 0, len(names))}
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return table.Workbook{}, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheet := readSheet(f, name, rows)
		log.Debugf("sheet read: source=%s sheet=%s columns=%d rows=%d", source, name, len(sheet.Columns), sheet.Len())
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

func readSheet(f *excelize.File, name string, rows [][]string) table.Sheet {
	sheet := table.Sheet{Name: name}

	h := -1
	for i, r := range rows {
		if !blank(r) {
			h = i
			break
		}
	}
	if h < 0 {
		return sheet
	}

	width := 0
	for _, r := range rows[h:] {
		width = max(width, len(r))
	}
	sheet.Columns = Headers(rows[h], width)

	for i := h + 1; i < len(rows); i++ {
		r := rows[i]
		if blank(r) {
			continue
		}
		rec := make(table.Record, len(sheet.Columns))
		for j, col := range sheet.Columns {
			raw := ""
			if j < len(r) {
				raw = r[j]
			}
			rec[col] = cellValue(f, name, j+1, i+1, raw)
		}
		sheet.Records = append(sheet.Records, rec)
	}
	return sheet
}

// Headers names width columns from the raw header row. Blank names become
// "Unnamed: <i>" and repeats get ".1", ".2" suffixes.
func Headers(raw []string, width int) []string {
	out := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for i := range width {
		name := ""
		if i < len(raw) {
			name = strings.TrimSpace(raw[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}

		for base := name; used[name]; {
			suffix[base]++
			name = fmt.Sprintf("%s.%d", base, suffix[base])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// cellValue types one cell. String typed cells stay Text even when they look
// numeric, so part numbers such as "007" keep their leading zeros. Formula
// cells are typed from their cached result; writers mark every formula as a
// string, so "=2+3" reads as the Number 5.
func cellValue(f *excelize.File, sheet string, col, row int, raw string) table.Value {
	if strings.TrimSpace(raw) == "" {
		return table.NullValue()
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.Infer(raw)
	}
	typ, err := f.GetCellType(sheet, cell)
	if err != nil {
		return table.Infer(raw)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return table.TextValue(raw)
	default:
		return table.Infer(raw)
	}
}

func blank(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
