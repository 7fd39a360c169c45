// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package aligner finds the rows of two tables that have no exact
// counterpart on the other side.
package aligner

import (
	"github.com/tfctl/bomctl/internal/log"
	"github.com/tfctl/bomctl/internal/table"
)

// Origin tags an aligned row with the side it came from.
type Origin string

const (
	Old Origin = "old"
	New Origin = "new"
)

// Row is a record that survived alignment. Index is its position in the
// source table.
type Row struct {
	table.Record
	Origin Origin
	Index  int
}

// Align performs a full outer equality join of old against new over the
// columns both tables share. Rows with an exact counterpart are dropped.
// Duplicates follow multiset rules: content seen N times in old and M times
// in new leaves |N-M| rows on the larger side, the earliest occurrences being
// the matched ones. Both outputs keep source order.
func Align(old, new table.Table) (oldOnly, newOnly []Row, shared []string) {
	shared = table.SharedColumns(old.Columns, new.Columns)

	// Without a common column nothing can be row-equal.
	if len(shared) == 0 {
		for i, rec := range old.Records {
			oldOnly = append(oldOnly, Row{Record: rec, Origin: Old, Index: i})
		}
		for i, rec := range new.Records {
			newOnly = append(newOnly, Row{Record: rec, Origin: New, Index: i})
		}
		return oldOnly, newOnly, shared
	}

	// Count how many times each signature appears in new so old rows can
	// consume them.
	pending := make(map[string]int, len(new.Records))
	for _, rec := range new.Records {
		pending[rec.Signature(shared)]++
	}

	// matchedNew counts, per signature, how many new rows were consumed by old.
	matchedNew := make(map[string]int)
	for i, rec := range old.Records {
		sig := rec.Signature(shared)
		if pending[sig] > 0 {
			pending[sig]--
			matchedNew[sig]++
			continue
		}
		oldOnly = append(oldOnly, Row{Record: rec, Origin: Old, Index: i})
	}

	for i, rec := range new.Records {
		sig := rec.Signature(shared)
		if matchedNew[sig] > 0 {
			matchedNew[sig]--
			continue
		}
		newOnly = append(newOnly, Row{Record: rec, Origin: New, Index: i})
	}

	log.Tracef("aligned: old=%d new=%d oldOnly=%d newOnly=%d shared=%d",
		len(old.Records), len(new.Records), len(oldOnly), len(newOnly), len(shared))

	return oldOnly, newOnly, shared
}

// Records strips the origin tags.
func Records(rows []Row) []table.Record {
	out := make([]table.Record, len(rows))
	for i, r := range rows {
		out[i] = r.Record
	}
	return out
}
