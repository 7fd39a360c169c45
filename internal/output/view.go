// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/tfctl/bomctl/internal/attrs"
	"github.com/tfctl/bomctl/internal/differ"
	"github.com/tfctl/bomctl/internal/engine"
)

// Field is one key/value of a Row.
type Field struct {
	Key   string
	Value interface{}
}

// Row is an ordered set of fields. It marshals to a JSON object or YAML
// mapping with keys in column order.
type Row []Field

// Get returns the value for key, or nil.
func (r Row) Get(key string) interface{} {
	for _, f := range r {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// MarshalJSON writes the fields in order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML returns the fields as an ordered yaml.MapSlice.
func (r Row) MarshalYAML() (interface{}, error) {
	ms := make(yaml.MapSlice, 0, len(r))
	for _, f := range r {
		ms = append(ms, yaml.MapItem{Key: f.Key, Value: f.Value})
	}
	return ms, nil
}

// SheetView is the rendered form of one compared sheet.
type SheetView struct {
	Index     int      `json:"index" yaml:"index"`
	Name      string   `json:"name" yaml:"name"`
	Added     int      `json:"added" yaml:"added"`
	Removed   int      `json:"removed" yaml:"removed"`
	Modified  int      `json:"modified" yaml:"modified"`
	Unchanged int      `json:"unchanged" yaml:"unchanged"`
	Degraded  bool     `json:"degraded" yaml:"degraded"`
	Warnings  []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Columns   []string `json:"columns" yaml:"columns"`
	Rows      []Row    `json:"rows" yaml:"rows"`
}

// ReportView is the rendered form of a whole comparison. run_id and created
// change on every run and are ignored when snapshots are compared.
type ReportView struct {
	RunID    string      `json:"run_id" yaml:"run_id"`
	Created  string      `json:"created" yaml:"created"`
	Old      string      `json:"old" yaml:"old"`
	New      string      `json:"new" yaml:"new"`
	Key      string      `json:"key" yaml:"key"`
	Degraded bool        `json:"degraded" yaml:"degraded"`
	Warnings []string    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Sheets   []SheetView `json:"sheets" yaml:"sheets"`
}

// Records renders the records of a sheet as rows: status, every column in
// schema order, then the list of changed columns. The pseudo columns are
// renamed when the schema already uses their names.
func Records(sd engine.SheetDiff) []Row {
	status, changed := attrs.PseudoKeys(sd.Columns)
	rows := make([]Row, 0, len(sd.Records))
	for _, rec := range sd.Records {
		rows = append(rows, record(rec, status, changed))
	}
	return rows
}

func record(rec differ.Record, statusKey, changedKey string) Row {
	row := make(Row, 0, len(rec.Cells)+2)
	row = append(row, Field{Key: statusKey, Value: string(rec.Class)})
	for _, c := range rec.Cells {
		row = append(row, Field{Key: c.Column, Value: c.Render()})
	}
	changed := rec.ChangedColumns()
	if changed == nil {
		changed = []string{}
	}
	return append(row, Field{Key: changedKey, Value: changed})
}

// NewReportView renders every record of rep without filtering.
func NewReportView(rep *engine.Report) ReportView {
	rv := ReportView{
		RunID:    rep.RunID,
		Created:  rep.Created.Format(time.RFC3339),
		Old:      rep.OldSource,
		New:      rep.NewSource,
		Key:      rep.Key,
		Degraded: rep.Degraded(),
		Warnings: rep.Warnings(),
		Sheets:   make([]SheetView, 0, len(rep.Sheets)),
	}
	for _, sd := range rep.Sheets {
		rv.Sheets = append(rv.Sheets, newSheetView(sd, Records(sd)))
	}
	return rv
}

func newSheetView(sd engine.SheetDiff, rows []Row) SheetView {
	if rows == nil {
		rows = []Row{}
	}
	return SheetView{
		Index:     sd.Index,
		Name:      sd.Name,
		Added:     sd.Count(differ.ClassAdded),
		Removed:   sd.Count(differ.ClassRemoved),
		Modified:  sd.Count(differ.ClassModified),
		Unchanged: sd.Unchanged,
		Degraded:  sd.Degraded,
		Warnings:  sd.Warnings,
		Columns:   sd.Columns,
		Rows:      rows,
	}
}

// Snapshot is the JSON form of the unfiltered report, as stored for --delta.
func Snapshot(rep *engine.Report) ([]byte, error) {
	return json.Marshal(NewReportView(rep))
}
