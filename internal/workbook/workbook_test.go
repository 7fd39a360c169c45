// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package workbook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tfctl/bomctl/internal/aws"
	"github.com/tfctl/bomctl/internal/engine"
	"github.com/tfctl/bomctl/internal/table"
)

// cells maps sheet name to rows of values written with SetCellValue.
type cells map[string][][]interface{}

func build(t *testing.T, order []string, data cells) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range data[name] {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}
	return f
}

func save(t *testing.T, f *excelize.File, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestHeaders(t *testing.T) {
	tests := []struct {
		name  string
		raw   []string
		width int
		want  []string
	}{
		{name: "plain", raw: []string{"LibRef", "Qty"}, width: 2, want: []string{"LibRef", "Qty"}},
		{name: "trimmed", raw: []string{" LibRef ", "Qty"}, width: 2, want: []string{"LibRef", "Qty"}},
		{name: "blank", raw: []string{"LibRef", "", "Qty"}, width: 3, want: []string{"LibRef", "Unnamed: 1", "Qty"}},
		{name: "wider data", raw: []string{"LibRef"}, width: 2, want: []string{"LibRef", "Unnamed: 1"}},
		{name: "duplicates", raw: []string{"A", "A", "A"}, width: 3, want: []string{"A", "A.1", "A.2"}},
		{name: "duplicate collides", raw: []string{"A", "A.1", "A"}, width: 3, want: []string{"A", "A.1", "A.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Headers(tt.raw, tt.width))
		})
	}
}

func TestOpenLocal(t *testing.T) {
	f := build(t, []string{"Top", "Empty"}, cells{
		"Top": {
			{},
			{"LibRef", "Qty", "Part", nil, "LibRef"},
			{"R1", 2, "007", nil, "dup"},
			{},
			{"C1", 1.5, nil, "stray", nil},
		},
	})
	path := save(t, f, "bom.xlsx")

	wb, err := Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, wb.Source)
	require.Len(t, wb.Sheets, 2)

	top := wb.Sheets[0]
	assert.Equal(t, "Top", top.Name)
	assert.Equal(t, []string{"LibRef", "Qty", "Part", "Unnamed: 3", "LibRef.1"}, top.Columns)
	require.Equal(t, 2, top.Len())

	r0 := top.Records[0]
	assert.Equal(t, table.TextValue("R1"), r0.Get("LibRef"))
	assert.Equal(t, table.NumberValue(2), r0.Get("Qty"))
	assert.Equal(t, table.TextValue("007"), r0.Get("Part"), "string cells keep leading zeros")
	assert.True(t, r0.Get("Unnamed: 3").IsNull())

	r1 := top.Records[1]
	assert.Equal(t, table.NumberValue(1.5), r1.Get("Qty"))
	assert.True(t, r1.Get("Part").IsNull())
	assert.Equal(t, table.TextValue("stray"), r1.Get("Unnamed: 3"))

	empty := wb.Sheets[1]
	assert.Empty(t, empty.Columns)
	assert.Zero(t, empty.Len())
}

func TestOpenFormulaCells(t *testing.T) {
	f := build(t, []string{"S"}, cells{
		"S": {
			{"LibRef", "Qty", "Desc"},
			{"R1", 5, "Resistor"},
		},
	})
	require.NoError(t, f.SetCellFormula("S", "B2", "2+3"))
	path := save(t, f, "formula.xlsx")

	wb, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, wb.Sheets[0].Len())

	rec := wb.Sheets[0].Records[0]
	assert.Equal(t, table.NumberValue(5), rec.Get("Qty"), "numeric result compares as a number")
	assert.Equal(t, table.TextValue("Resistor"), rec.Get("Desc"))
}

func TestOpenUnsupported(t *testing.T) {
	for _, src := range []string{"bom.csv", "bom.xls", "s3://b/bom.txt", "bom"} {
		_, err := Open(context.Background(), src)
		assert.ErrorIs(t, err, ErrUnsupportedSource, src)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedSource))
}

type memGetter map[string][]byte

func (m memGetter) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	body, ok := m[awsv2.ToString(in.Bucket)+"/"+awsv2.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func TestOpenS3(t *testing.T) {
	f := build(t, []string{"BOM"}, cells{"BOM": {{"LibRef"}, {"U1"}}})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	getter := memGetter{"boms/rev-a.xlsx": buf.Bytes()}

	wb, err := Open(context.Background(), "s3://boms/rev-a.xlsx", WithObjectGetter(getter))
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, table.TextValue("U1"), wb.Sheets[0].Records[0].Get("LibRef"))

	_, err = Open(context.Background(), "s3://boms/rev-b.xlsx", WithObjectGetter(getter))
	assert.ErrorContains(t, err, "NoSuchKey")

	_, err = Open(context.Background(), "s3://rev-b.xlsx", WithObjectGetter(getter))
	assert.ErrorIs(t, err, aws.ErrInvalidURI)
}

func TestInspect(t *testing.T) {
	wb := table.Workbook{Sheets: []table.Sheet{
		{Name: "A", Table: table.FromRows([]string{"LibRef", "Qty"}, [][]string{{"R1", "1"}})},
		{Name: "B", Table: table.FromRows([]string{"Part"}, nil)},
	}}

	info := Inspect(wb)
	require.Len(t, info, 2)
	assert.Equal(t, SheetInfo{Index: 0, Name: "A", Rows: 1, Columns: []string{"LibRef", "Qty"}}, info[0])
	assert.Equal(t, 1, info[1].Index)
	assert.True(t, HasColumn(wb, "Part"))
	assert.False(t, HasColumn(wb, "Designator"))
}

func fillOf(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	id, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	if len(style.Fill.Color) == 0 {
		return ""
	}
	return strings.ToUpper(style.Fill.Color[0])
}

func TestWrite(t *testing.T) {
	cols := []string{"LibRef", "Qty", "Desc"}
	old := table.Workbook{Sheets: []table.Sheet{
		{Name: "Top", Table: table.FromRows(cols, [][]string{{"R1", "2", "Res"}, {"C1", "1", "Cap"}})},
		{Name: "Sub", Table: table.FromRows(cols, [][]string{{"U1", "1", "MCU"}})},
	}}
	new := table.Workbook{Sheets: []table.Sheet{
		{Name: "Top", Table: table.FromRows(cols, [][]string{{"R1", "3", "Res"}, {"D1", "1", "Diode"}})},
		{Name: "Sub", Table: table.FromRows(cols, [][]string{{"U1", "1", "MCU"}})},
	}}
	rep, err := engine.Compare(context.Background(), old, new, engine.Options{Key: "LibRef"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Write(path, rep, DefaultPalette))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sheet1", "Sheet2"}, f.GetSheetList())

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, cols, rows[0])
	assert.Equal(t, []string{"R1", "2 ---> 3", "Res"}, rows[1])
	assert.Equal(t, []string{"C1 ---> REMOVED", "1 ---> REMOVED", "Cap ---> REMOVED"}, rows[2])
	assert.Equal(t, []string{"ADDED ---> D1", "ADDED ---> 1", "ADDED ---> Diode"}, rows[3])

	assert.Equal(t, "", fillOf(t, f, "Sheet1", "A2"))
	assert.Contains(t, fillOf(t, f, "Sheet1", "B2"), "FFD700")
	assert.Contains(t, fillOf(t, f, "Sheet1", "A3"), "FA8072")
	assert.Contains(t, fillOf(t, f, "Sheet1", "B3"), "FFD700")
	assert.Contains(t, fillOf(t, f, "Sheet1", "A4"), "3CB371")

	id, err := f.GetCellStyle("Sheet1", "C2")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Alignment)
	assert.True(t, style.Alignment.WrapText)

	sub, err := f.GetRows("Sheet2")
	require.NoError(t, err)
	assert.Equal(t, [][]string{cols}, sub)
}

func TestWriteDegradedSkipsKeyFill(t *testing.T) {
	cols := []string{"LibRef", "Qty"}
	old := table.Workbook{Sheets: []table.Sheet{{Name: "S", Table: table.FromRows(cols, [][]string{{"R1", "1"}})}}}
	new := table.Workbook{Sheets: []table.Sheet{{Name: "S", Table: table.FromRows(cols, nil)}}}

	rep, err := engine.Compare(context.Background(), old, new, engine.Options{Key: "PartNo"})
	require.NoError(t, err)
	require.True(t, rep.Degraded())

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, Write(path, rep, DefaultPalette))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, fillOf(t, f, "Sheet1", "A2"), "FFD700")
}
