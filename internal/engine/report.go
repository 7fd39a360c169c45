// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"time"

	"github.com/tfctl/bomctl/internal/differ"
)

// SheetDiff is the comparison result for one sheet pair.
type SheetDiff struct {
	Index    int
	Name     string
	NewName  string
	Columns  []string
	Shared   []string
	Records  []differ.Record
	Degraded bool
	Warnings []string

	OldRows   int
	NewRows   int
	Unchanged int
}

// Count returns the number of records with the given classification.
func (s SheetDiff) Count(c differ.Classification) int {
	n := 0
	for _, r := range s.Records {
		if r.Class == c {
			n++
		}
	}
	return n
}

// HasKey reports whether key cells can be highlighted, i.e. the sheet was
// paired by key.
func (s SheetDiff) HasKey() bool {
	return !s.Degraded
}

// Report is the full result of Compare. Sheets are in input order.
type Report struct {
	RunID     string
	Created   time.Time
	OldSource string
	NewSource string
	Key       string
	Sheets    []SheetDiff
	Notes     []string
}

// Degraded is true when any sheet had to fall back to positional pairing.
func (r *Report) Degraded() bool {
	for _, s := range r.Sheets {
		if s.Degraded {
			return true
		}
	}
	return false
}

// Warnings gathers report level notes followed by every sheet warning.
func (r *Report) Warnings() []string {
	out := append([]string(nil), r.Notes...)
	for _, s := range r.Sheets {
		out = append(out, s.Warnings...)
	}
	return out
}

// Totals sums the classifications over all sheets.
func (r *Report) Totals() (added, removed, modified int) {
	for _, s := range r.Sheets {
		added += s.Count(differ.ClassAdded)
		removed += s.Count(differ.ClassRemoved)
		modified += s.Count(differ.ClassModified)
	}
	return
}

// Empty reports whether no sheet has any difference.
func (r *Report) Empty() bool {
	for _, s := range r.Sheets {
		if len(s.Records) > 0 {
			return false
		}
	}
	return true
}
