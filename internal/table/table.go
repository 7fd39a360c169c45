// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package table

import (
	"strings"
)

// Record is one row keyed by column name. A missing column reads as Null.
type Record map[string]Value

// Get returns the value for column, or Null when absent.
func (r Record) Get(column string) Value {
	return r[column]
}

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EqualOn reports whether r and o hold equal values for every column listed.
func (r Record) EqualOn(o Record, columns []string) bool {
	for _, c := range columns {
		if !r.Get(c).Equal(o.Get(c)) {
			return false
		}
	}
	return true
}

// Signature returns a string that is identical for two records exactly when
// they are EqualOn the same columns.
func (r Record) Signature(columns []string) string {
	var sb strings.Builder
	for _, c := range columns {
		r.Get(c).appendKey(&sb)
		sb.WriteByte('|')
	}
	return sb.String()
}

// Table is an ordered set of records sharing the Columns schema.
type Table struct {
	Columns []string
	Records []Record
}

// FromRows builds a Table from a header and raw string rows, inferring each
// cell with Infer. Short rows are padded with Null.
func FromRows(columns []string, rows [][]string) Table {
	t := Table{Columns: append([]string(nil), columns...)}
	for _, row := range rows {
		rec := make(Record, len(columns))
		for i, c := range columns {
			if i < len(row) {
				rec[c] = Infer(row[i])
			} else {
				rec[c] = NullValue()
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

// Len returns the number of records.
func (t Table) Len() int { return len(t.Records) }

// Has reports whether column is part of the schema.
func (t Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Sheet is a named Table.
type Sheet struct {
	Name string
	Table
}

// Workbook is an ordered collection of sheets. Source is informational (the
// path or URI the workbook was read from).
type Workbook struct {
	Source string
	Sheets []Sheet
}

// SharedColumns returns the columns present in both a and b, in a's order.
func SharedColumns(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, c := range b {
		in[c] = struct{}{}
	}
	var out []string
	for _, c := range a {
		if _, ok := in[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// UnionColumns returns a's columns followed by b's columns not found in a.
func UnionColumns(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, cols := range [][]string{a, b} {
		for _, c := range cols {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// SameColumns reports whether a and b contain the same column names,
// ignoring order.
func SameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return len(SharedColumns(a, b)) == len(a)
}
