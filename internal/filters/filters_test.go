// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/bomctl/internal/attrs"
)

//go:embed testdata/*.yaml
var testDataFS embed.FS

type testBuildFiltersCase struct {
	Name      string   `yaml:"name"`
	Spec      string   `yaml:"spec"`
	Delimiter string   `yaml:"delimiter"`
	Want      []Filter `yaml:"want"`
	WantCount int      `yaml:"wantCount"`
}

type testFilterDatasetCase struct {
	Name     string   `yaml:"name"`
	Spec     string   `yaml:"spec"`
	WantRefs []string `yaml:"wantRefs"`
}

func loadTestData(t *testing.T, filename string, v any) {
	t.Helper()
	data, err := testDataFS.ReadFile("testdata/" + filename)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(data, v))
}

func TestBuildFilters(t *testing.T) {
	var tests []testBuildFiltersCase
	loadTestData(t, "build_filters.yaml", &tests)
	require.NotEmpty(t, tests)

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			if tt.Delimiter != "" {
				t.Setenv(EnvDelim, tt.Delimiter)
			}

			got := BuildFilters(tt.Spec)
			assert.Len(t, got, tt.WantCount)
			for i, want := range tt.Want {
				assert.Equal(t, want, got[i], "filter[%d]", i)
			}
		})
	}
}

const dataset = `[
  {"status":"Modified","LibRef":"R1","Qty":"2 ---> 3","Mfr.PN":"ABC","Description":"Resistor","changed":["Qty"]},
  {"status":"Removed","LibRef":"C1","Qty":"1","Mfr.PN":null,"Description":"Cap 10uF","changed":["LibRef","Description"]},
  {"status":"Added","LibRef":"ADDED ---> D1","Qty":"ADDED ---> 1","Mfr.PN":"","Description":"Diode","changed":["LibRef"]},
  {"status":"Modified","LibRef":"U1","Qty":"50","Mfr.PN":"","Description":"MCU","changed":["Qty"]}
]`

func TestFilterDataset(t *testing.T) {
	var tests []testFilterDatasetCase
	loadTestData(t, "filter_dataset.yaml", &tests)
	require.NotEmpty(t, tests)

	list := attrs.FromColumns([]string{"LibRef", "Qty", "Mfr.PN", "Description"})

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			rows := FilterDataset(gjson.Parse(dataset), list, tt.Spec)

			refs := make([]string, 0, len(rows))
			for _, r := range rows {
				refs = append(refs, r["LibRef"].(string))
			}
			assert.Equal(t, tt.WantRefs, refs)
		})
	}
}

func TestFilterDatasetProjects(t *testing.T) {
	list := attrs.FromColumns([]string{"LibRef"})
	require.NoError(t, list.Set("LibRef:Ref"))

	rows := FilterDataset(gjson.Parse(dataset), list, "status=Modified")
	require.Len(t, rows, 2)
	assert.Equal(t, "R1", rows[0]["Ref"])
	assert.Equal(t, "Modified", rows[0]["status"])
	assert.Equal(t, []interface{}{"Qty"}, rows[0]["changed"])
	assert.NotContains(t, rows[0], "Qty")
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		value  string
		filter Filter
		want   bool
	}{
		{"Resistor", Filter{Operand: "=", Value: "Resistor"}, true},
		{"Resistor", Filter{Operand: "=", Value: "Resistor", Negate: true}, false},
		{"Resistor", Filter{Operand: "~", Value: "resistor"}, true},
		{"Resistor", Filter{Operand: "^", Value: "Res"}, true},
		{"Resistor", Filter{Operand: "@", Value: "sist"}, true},
		{"Resistor", Filter{Operand: "/", Value: "^R.*r$"}, true},
		{"Resistor", Filter{Operand: "/", Value: "("}, false},
		{"b", Filter{Operand: ">", Value: "a"}, true},
		{"b", Filter{Operand: "<", Value: "a"}, false},
		{"x", Filter{Operand: "?", Value: "x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.filter.Operand+tt.filter.Value, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	assert.True(t, checkNumericOperand(3, Filter{Operand: "=", Value: "3"}))
	assert.True(t, checkNumericOperand(3, Filter{Operand: ">", Value: "2.5"}))
	assert.False(t, checkNumericOperand(3, Filter{Operand: "<", Value: "2.5"}))
	assert.True(t, checkNumericOperand(3, Filter{Operand: "<", Value: "2.5", Negate: true}))
	assert.True(t, checkNumericOperand(3, Filter{Operand: "^", Value: "3"}), "falls back to text")
	assert.False(t, checkNumericOperand(3, Filter{Operand: "=", Value: "three"}))
}

func TestCheckContainsOperand(t *testing.T) {
	list := []any{"Qty", "LibRef"}
	assert.True(t, checkContainsOperand(list, Filter{Operand: "@", Value: "Qty"}))
	assert.False(t, checkContainsOperand(list, Filter{Operand: "@", Value: "Desc"}))
	assert.True(t, checkContainsOperand(list, Filter{Operand: "@", Value: "Desc", Negate: true}))
	assert.True(t, checkContainsOperand(map[string]any{"a": 1}, Filter{Operand: "@", Value: "a"}))
	assert.False(t, checkContainsOperand(42, Filter{Operand: "@", Value: "a"}))
}
