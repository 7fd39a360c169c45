// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/bomctl/internal/aligner"
	"github.com/tfctl/bomctl/internal/table"
)

var schema = []string{"id", "val"}

func run(old, new [][]string, key string) ([]Record, bool) {
	o := table.FromRows(schema, old)
	n := table.FromRows(schema, new)
	oldOnly, newOnly, _ := aligner.Align(o, n)
	return Diff(oldOnly, newOnly, schema, key)
}

func TestDiffScenarios(t *testing.T) {
	tests := []struct {
		name         string
		old          [][]string
		new          [][]string
		key          string
		wantDegraded bool
		wantClass    []Classification
		wantVal      []string
	}{
		{
			name:      "identical rows produce nothing",
			old:       [][]string{{"1", "A"}},
			new:       [][]string{{"1", "A"}},
			key:       "id",
			wantClass: []Classification{},
			wantVal:   []string{},
		},
		{
			name:      "modified value",
			old:       [][]string{{"1", "A"}},
			new:       [][]string{{"1", "B"}},
			key:       "id",
			wantClass: []Classification{ClassModified},
			wantVal:   []string{"A ---> B"},
		},
		{
			name:      "removed row",
			old:       [][]string{{"1", "A"}},
			key:       "id",
			wantClass: []Classification{ClassRemoved},
			wantVal:   []string{"A ---> REMOVED"},
		},
		{
			name:      "added row",
			new:       [][]string{{"2", "C"}},
			key:       "id",
			wantClass: []Classification{ClassAdded},
			wantVal:   []string{"ADDED ---> C"},
		},
		{
			name:         "missing key with identical rows",
			old:          [][]string{{"1", "A"}},
			new:          [][]string{{"1", "A"}},
			key:          "missing_col",
			wantDegraded: true,
			wantClass:    []Classification{},
			wantVal:      []string{},
		},
		{
			name:         "missing key pairs by position",
			old:          [][]string{{"1", "A"}, {"2", "B"}},
			new:          [][]string{{"2", "X"}},
			key:          "missing_col",
			wantDegraded: true,
			wantClass:    []Classification{ClassModified, ClassRemoved},
			wantVal:      []string{"A ---> X", "B ---> REMOVED"},
		},
		{
			name:      "mixed add remove modify",
			old:       [][]string{{"1", "A"}, {"2", "B"}, {"3", "C"}},
			new:       [][]string{{"1", "A"}, {"3", "Z"}, {"4", "D"}},
			key:       "id",
			wantClass: []Classification{ClassRemoved, ClassModified, ClassAdded},
			wantVal:   []string{"B ---> REMOVED", "C ---> Z", "ADDED ---> D"},
		},
		{
			name:      "value cleared",
			old:       [][]string{{"1", "A"}},
			new:       [][]string{{"1", ""}},
			key:       "id",
			wantClass: []Classification{ClassModified},
			wantVal:   []string{"A ---> REMOVED"},
		},
		{
			name:      "value filled",
			old:       [][]string{{"1", ""}},
			new:       [][]string{{"1", "A"}},
			key:       "id",
			wantClass: []Classification{ClassModified},
			wantVal:   []string{"ADDED ---> A"},
		},
		{
			name:      "duplicate keys pair in order",
			old:       [][]string{{"1", "A"}, {"1", "B"}},
			new:       [][]string{{"1", "C"}, {"1", "D"}},
			key:       "id",
			wantClass: []Classification{ClassModified, ClassModified},
			wantVal:   []string{"A ---> C", "B ---> D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, degraded := run(tt.old, tt.new, tt.key)
			assert.Equal(t, tt.wantDegraded, degraded)

			classes := make([]Classification, 0, len(records))
			vals := make([]string, 0, len(records))
			for _, r := range records {
				classes = append(classes, r.Class)
				c, ok := r.Cell("val")
				require.True(t, ok)
				vals = append(vals, c.Render())
			}
			assert.Equal(t, tt.wantClass, classes)
			assert.Equal(t, tt.wantVal, vals)
		})
	}
}

func TestDiffKeyCell(t *testing.T) {
	records, degraded := run([][]string{{"1", "A"}}, [][]string{{"2", "A"}}, "id")
	require.False(t, degraded)
	require.Len(t, records, 2)

	assert.Equal(t, ClassRemoved, records[0].Class)
	assert.Equal(t, "1 ---> REMOVED", records[0].Rendered()["id"])
	assert.Equal(t, table.NumberValue(1), records[0].Key)

	assert.Equal(t, ClassAdded, records[1].Class)
	assert.Equal(t, "ADDED ---> 2", records[1].Rendered()["id"])
	assert.Equal(t, "A ---> REMOVED", records[0].Rendered()["val"])
}

func TestDiffFieldOrderFollowsSchema(t *testing.T) {
	records, _ := run([][]string{{"1", "A"}}, [][]string{{"1", "B"}}, "id")
	require.Len(t, records, 1)

	var got []string
	for _, c := range records[0].Cells {
		got = append(got, c.Column)
	}
	assert.Equal(t, schema, got)
	assert.Equal(t, []string{"val"}, records[0].ChangedColumns())
}

func TestDiffNullKeysPairPositionally(t *testing.T) {
	records, degraded := run([][]string{{"", "A"}}, [][]string{{"", "B"}}, "id")
	require.False(t, degraded)
	require.Len(t, records, 1)
	assert.Equal(t, ClassModified, records[0].Class)
	assert.Equal(t, "", records[0].Rendered()["id"])
}

// swapKind mirrors a classification for the symmetry check.
func swapClass(c Classification) Classification {
	switch c {
	case ClassAdded:
		return ClassRemoved
	case ClassRemoved:
		return ClassAdded
	default:
		return c
	}
}

func TestDiffSymmetry(t *testing.T) {
	a := [][]string{{"1", "A"}, {"2", "B"}, {"3", ""}}
	b := [][]string{{"1", "Z"}, {"3", "C"}, {"4", "D"}}

	ab, _ := run(a, b, "id")
	ba, _ := run(b, a, "id")
	require.Len(t, ba, len(ab))

	type view struct {
		Class Classification
		Cells []Cell
	}
	index := func(records []Record) map[string]view {
		out := map[string]view{}
		for _, r := range records {
			out[r.Key.String()] = view{Class: r.Class, Cells: r.Cells}
		}
		return out
	}

	want := map[string]view{}
	for k, v := range index(ab) {
		cells := make([]Cell, len(v.Cells))
		for i, c := range v.Cells {
			cells[i] = c.Swap()
		}
		want[k] = view{Class: swapClass(v.Class), Cells: cells}
	}

	if d := cmp.Diff(want, index(ba)); d != "" {
		t.Errorf("swapped diff mismatch (-want +got):\n%s", d)
	}
}

func TestClassificationExhaustive(t *testing.T) {
	old := [][]string{{"1", "A"}, {"2", "B"}, {"5", "E"}}
	new := [][]string{{"1", "A"}, {"2", "C"}, {"6", "F"}}

	for _, key := range []string{"id", "nope"} {
		records, _ := run(old, new, key)
		for _, r := range records {
			assert.Contains(t, []Classification{ClassAdded, ClassRemoved, ClassModified}, r.Class)
			if r.Class == ClassModified {
				assert.NotEmpty(t, r.ChangedColumns())
			}
		}
	}
}

func TestCellRender(t *testing.T) {
	tests := []struct {
		name string
		old  table.Value
		new  table.Value
		kind CellKind
		want string
	}{
		{name: "unchanged", old: table.TextValue("A"), new: table.TextValue("A"), kind: Unchanged, want: "A"},
		{name: "both null", old: table.NullValue(), new: table.NullValue(), kind: Unchanged, want: ""},
		{name: "changed", old: table.TextValue("A"), new: table.TextValue("B"), kind: Changed, want: "A ---> B"},
		{name: "added", old: table.NullValue(), new: table.NumberValue(3), kind: Added, want: "ADDED ---> 3"},
		{name: "removed", old: table.NumberValue(2.5), new: table.NullValue(), kind: Removed, want: "2.5 ---> REMOVED"},
		{name: "number to text", old: table.NumberValue(1), new: table.TextValue("1"), kind: Changed, want: "1 ---> 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compare("col", tt.old, tt.new)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.want, c.Render())
		})
	}
}

func TestDelta(t *testing.T) {
	prev := []byte(`{"run_id":"a","created":"x","sheets":[{"name":"S","rows":1}]}`)
	same := []byte(`{"run_id":"b","created":"y","sheets":[{"name":"S","rows":1}]}`)
	curr := []byte(`{"run_id":"c","created":"z","sheets":[{"name":"S","rows":2}]}`)

	var buf bytes.Buffer
	changed, err := Delta(prev, same, false, &buf)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Contains(t, buf.String(), "identical")

	buf.Reset()
	changed, err = Delta(prev, curr, false, &buf)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, buf.String(), "rows")

	changed, err = Delta(nil, curr, false, &buf)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = Delta([]byte("{"), curr, false, &buf)
	assert.Error(t, err)
}
