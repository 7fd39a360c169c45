// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tfctl/bomctl/internal/aligner"
	"github.com/tfctl/bomctl/internal/differ"
	"github.com/tfctl/bomctl/internal/log"
	"github.com/tfctl/bomctl/internal/table"
)

var (
	// ErrSheetCountMismatch is returned by ValidatePair when the workbooks do
	// not hold the same number of sheets.
	ErrSheetCountMismatch = errors.New("old and new workbooks have a different number of sheets")

	// ErrKeyRequired is returned by Compare when no key column is given.
	ErrKeyRequired = errors.New("a key column is required")
)

// Options controls a comparison.
type Options struct {
	// Key is the identifier column used to pair changed rows. Required.
	Key string
	// Parallelism caps the number of sheets compared at once. Zero means
	// GOMAXPROCS.
	Parallelism int
}

// ValidatePair checks the caller precondition that both workbooks carry the
// same number of sheets. Compare itself does not enforce it.
func ValidatePair(old, new table.Workbook) error {
	if len(old.Sheets) != len(new.Sheets) {
		return fmt.Errorf("%w: %d vs %d", ErrSheetCountMismatch, len(old.Sheets), len(new.Sheets))
	}
	return nil
}

// Compare reconciles old against new sheet by sheet. Sheets pair by position;
// only the common prefix is compared when the counts differ. Sheets run
// concurrently but the report keeps input order.
func Compare(ctx context.Context, old, new table.Workbook, opts Options) (*Report, error) {
	if opts.Key == "" {
		return nil, ErrKeyRequired
	}

	n := min(len(old.Sheets), len(new.Sheets))
	if len(old.Sheets) != len(new.Sheets) {
		log.Warnf("sheet counts differ (%d vs %d), comparing the first %d", len(old.Sheets), len(new.Sheets), n)
	}

	limit := opts.Parallelism
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	sheets := make([]SheetDiff, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sd := CompareSheet(old.Sheets[i], new.Sheets[i], opts.Key)
			sd.Index = i
			sheets[i] = sd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparison aborted: %w", err)
	}

	rep := &Report{
		RunID:     uuid.NewString(),
		Created:   time.Now().UTC(),
		OldSource: old.Source,
		NewSource: new.Source,
		Key:       opts.Key,
		Sheets:    sheets,
	}
	if len(old.Sheets) != len(new.Sheets) {
		rep.Notes = append(rep.Notes, fmt.Sprintf(
			"sheet counts differ (%d vs %d); only the first %d were compared",
			len(old.Sheets), len(new.Sheets), n))
	}

	a, r, m := rep.Totals()
	log.Debugf("compare done: sheets=%d added=%d removed=%d modified=%d degraded=%v",
		n, a, r, m, rep.Degraded())

	return rep, nil
}

// CompareSheet runs the aligner and differ over one sheet pair.
func CompareSheet(old, new table.Sheet, key string) SheetDiff {
	columns := table.UnionColumns(old.Columns, new.Columns)

	oldOnly, newOnly, shared := aligner.Align(old.Table, new.Table)
	records, degraded := differ.Diff(oldOnly, newOnly, columns, key)

	sd := SheetDiff{
		Name:      old.Name,
		NewName:   new.Name,
		Columns:   columns,
		Shared:    shared,
		Records:   records,
		Degraded:  degraded,
		OldRows:   old.Len(),
		NewRows:   new.Len(),
		Unchanged: old.Len() - len(oldOnly),
	}

	if !table.SameColumns(old.Columns, new.Columns) {
		w := fmt.Sprintf("sheet %q: columns differ between old and new; comparing on %d shared columns",
			old.Name, len(shared))
		sd.Warnings = append(sd.Warnings, w)
		log.Warnf("%s", w)
	}
	if degraded {
		w := fmt.Sprintf("sheet %q: key column %q not found; possible faulty output", old.Name, key)
		sd.Warnings = append(sd.Warnings, w)
		log.Warnf("%s", w)
	}

	return sd
}
