// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/apex/log"

	"github.com/tfctl/bomctl/internal/aligner"
	"github.com/tfctl/bomctl/internal/table"
)

// Classification is the row level verdict used for highlighting.
type Classification string

const (
	ClassAdded    Classification = "Added"
	ClassRemoved  Classification = "Removed"
	ClassModified Classification = "Modified"
)

// Record is one output row. Cells follow the schema order passed to Diff.
// Old or New is nil when the row has no counterpart on that side.
type Record struct {
	Class Classification
	Key   table.Value
	Cells []Cell
	Old   table.Record
	New   table.Record
}

// Rendered returns the rendered text of every cell keyed by column.
func (r Record) Rendered() map[string]string {
	out := make(map[string]string, len(r.Cells))
	for _, c := range r.Cells {
		out[c.Column] = c.Render()
	}
	return out
}

// Cell returns the cell for column and whether it exists.
func (r Record) Cell(column string) (Cell, bool) {
	for _, c := range r.Cells {
		if c.Column == column {
			return c, true
		}
	}
	return Cell{}, false
}

// ChangedColumns lists the columns whose cell is not Unchanged.
func (r Record) ChangedColumns() []string {
	var out []string
	for _, c := range r.Cells {
		if c.Kind != Unchanged {
			out = append(out, c.Column)
		}
	}
	return out
}

// pair is an old/new couple; either side may be nil.
type pair struct {
	old table.Record
	new table.Record
}

// Diff pairs the aligned rows and compares them field by field.
//
// When key is one of the schema columns, rows pair by key value; the k-th old
// row with a given key pairs with the k-th new row with that key. Otherwise
// degraded is true and rows pair by position, which can mismatch rows that
// were not already in identity order.
func Diff(oldOnly, newOnly []aligner.Row, schema []string, key string) (records []Record, degraded bool) {
	var pairs []pair
	if contains(schema, key) {
		pairs = pairByKey(oldOnly, newOnly, key)
	} else {
		degraded = true
		log.Debugf("key column %q not in schema, pairing by position", key)
		pairs = pairByPosition(oldOnly, newOnly)
	}

	records = make([]Record, 0, len(pairs))
	for _, p := range pairs {
		records = append(records, build(p, schema, key, degraded))
	}
	return records, degraded
}

// build compares one pair across the schema and classifies it.
func build(p pair, schema []string, key string, degraded bool) Record {
	rec := Record{Old: p.old, New: p.new, Cells: make([]Cell, 0, len(schema))}
	for _, col := range schema {
		rec.Cells = append(rec.Cells, compare(col, p.old.Get(col), p.new.Get(col)))
	}

	switch {
	case p.old == nil:
		rec.Class = ClassAdded
	case p.new == nil:
		rec.Class = ClassRemoved
	default:
		rec.Class = ClassModified
	}

	if !degraded {
		if p.new != nil {
			rec.Key = p.new.Get(key)
		} else {
			rec.Key = p.old.Get(key)
		}
	}
	return rec
}

// pairByKey re-indexes both sides by the key column. Output order is every
// old row in order (paired or not), then the unpaired new rows in order.
func pairByKey(oldOnly, newOnly []aligner.Row, key string) []pair {
	cols := []string{key}

	// slots[sig] holds the indexes into pairs of old rows with that key, in
	// order of appearance.
	slots := make(map[string][]int)
	pairs := make([]pair, 0, len(oldOnly)+len(newOnly))
	for _, r := range oldOnly {
		sig := r.Signature(cols)
		slots[sig] = append(slots[sig], len(pairs))
		pairs = append(pairs, pair{old: r.Record})
	}

	var standalone []pair
	for _, r := range newOnly {
		sig := r.Signature(cols)
		if idx := slots[sig]; len(idx) > 0 {
			pairs[idx[0]].new = r.Record
			slots[sig] = idx[1:]
			continue
		}
		standalone = append(standalone, pair{new: r.Record})
	}

	return append(pairs, standalone...)
}

// pairByPosition zips both sides by index. The surplus of the longer side is
// left standalone.
func pairByPosition(oldOnly, newOnly []aligner.Row) []pair {
	n := max(len(oldOnly), len(newOnly))
	pairs := make([]pair, n)
	for i := range n {
		if i < len(oldOnly) {
			pairs[i].old = oldOnly[i].Record
		}
		if i < len(newOnly) {
			pairs[i].new = newOnly[i].Record
		}
	}
	return pairs
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
