// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"github.com/tfctl/bomctl/internal/table"
)

// Arrow separates the before and after halves of a rendered change.
const Arrow = " ---> "

const (
	addedMarker   = "ADDED"
	removedMarker = "REMOVED"
)

// CellKind classifies a single field comparison.
type CellKind int

const (
	Unchanged CellKind = iota
	Added
	Removed
	Changed
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Changed:
		return "changed"
	default:
		return "unchanged"
	}
}

// Cell is the comparison of one column across a paired old and new record.
// Old is Null for Added, New is Null for Removed.
type Cell struct {
	Column string
	Kind   CellKind
	Old    table.Value
	New    table.Value
}

// compare builds the Cell for one column. A missing side is passed as Null.
func compare(column string, old, new table.Value) Cell {
	c := Cell{Column: column, Old: old, New: new}
	switch {
	case old.Equal(new):
		c.Kind = Unchanged
	case old.IsNull():
		c.Kind = Added
	case new.IsNull():
		c.Kind = Removed
	default:
		c.Kind = Changed
	}
	return c
}

// Value returns the value a reader sees for an unchanged cell, or the most
// recent value otherwise.
func (c Cell) Value() table.Value {
	switch c.Kind {
	case Added, Changed:
		return c.New
	default:
		return c.Old
	}
}

// Render formats the cell using the "old ---> new" convention.
func (c Cell) Render() string {
	switch c.Kind {
	case Added:
		return addedMarker + Arrow + c.New.String()
	case Removed:
		return c.Old.String() + Arrow + removedMarker
	case Changed:
		return c.Old.String() + Arrow + c.New.String()
	default:
		return c.Old.String()
	}
}

// Swap returns the cell as seen from the opposite direction.
func (c Cell) Swap() Cell {
	return compare(c.Column, c.New, c.Old)
}
