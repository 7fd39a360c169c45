// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/bomctl/internal/attrs"
	"github.com/tfctl/bomctl/internal/config"
	"github.com/tfctl/bomctl/internal/differ"
	"github.com/tfctl/bomctl/internal/engine"
	"github.com/tfctl/bomctl/internal/filters"
)

// Options shape how a report is presented.
type Options struct {
	Format  string
	Filter  string
	Sort    string
	Attrs   string
	Color   bool
	Titles  bool
	Padding int
}

// OptionsFromCommand reads the presentation flags of cmd.
func OptionsFromCommand(cmd *cli.Command) Options {
	return Options{
		Format:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Attrs:   cmd.String("attrs"),
		Color:   cmd.Bool("color"),
		Titles:  cmd.Bool("titles"),
		Padding: cmd.Int("padding"),
	}
}

// InterfaceToString converts a dataset value to display text. A custom empty
// value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case []interface{}:
		parts := make([]string, 0, len(value))
		for _, v := range value {
			parts = append(parts, InterfaceToString(v))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(value, ", ")
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// sheetData is one sheet after filtering, transforming and sorting.
type sheetData struct {
	diff  engine.SheetDiff
	attrs attrs.AttrList
	rows  []map[string]interface{}
}

// SliceDiceSpit filters, transforms, sorts and renders rep to w in the
// requested format. If w is nil, os.Stdout is used.
func SliceDiceSpit(rep *engine.Report, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	sheets := make([]sheetData, 0, len(rep.Sheets))
	for _, sd := range rep.Sheets {
		data, err := sliceDice(sd, opts)
		if err != nil {
			return err
		}
		sheets = append(sheets, data)
	}

	switch opts.Format {
	case "json":
		out, err := json.Marshal(reportView(rep, sheets))
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(reportView(rep, sheets))
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		for i, s := range sheets {
			if i > 0 {
				fmt.Fprintln(w)
			}
			TableWriter(s, opts, w)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, footer(rep))
		return nil
	}
}

// sliceDice runs the attrs, filter, transform and sort stages over one sheet.
func sliceDice(sd engine.SheetDiff, opts Options) (sheetData, error) {
	list := attrs.FromColumns(sd.Columns)
	if err := list.Set(opts.Attrs); err != nil {
		return sheetData{}, err
	}
	_ = list.SetGlobalTransformSpec()

	doc, err := json.Marshal(Records(sd))
	if err != nil {
		return sheetData{}, fmt.Errorf("failed to marshal sheet %q: %w", sd.Name, err)
	}

	rows := filters.FilterDataset(gjson.ParseBytes(doc), list, opts.Filter)
	for _, row := range rows {
		for _, attr := range list {
			if attr.TransformSpec != "" && attr.Key != "*" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	if opts.Sort != "" {
		SortDataset(rows, opts.Sort)
	}
	log.Debugf("sheet %q: %d of %d rows kept", sd.Name, len(rows), len(sd.Records))

	return sheetData{diff: sd, attrs: list, rows: rows}, nil
}

func reportView(rep *engine.Report, sheets []sheetData) ReportView {
	rv := NewReportView(rep)
	for i, s := range sheets {
		included := s.attrs.Included()
		rows := make([]Row, 0, len(s.rows))
		for _, r := range s.rows {
			row := make(Row, 0, len(included))
			for _, a := range included {
				row = append(row, Field{Key: a.OutputKey, Value: r[a.OutputKey]})
			}
			rows = append(rows, row)
		}
		rv.Sheets[i].Rows = rows
	}
	return rv
}

// SheetTitle is the header line printed above each sheet in text output.
func SheetTitle(sd engine.SheetDiff) string {
	return fmt.Sprintf("Sheet %q (%d added, %d removed, %d modified)",
		sd.Name, sd.Count(differ.ClassAdded), sd.Count(differ.ClassRemoved), sd.Count(differ.ClassModified))
}

func footer(rep *engine.Report) string {
	a, r, m := rep.Totals()
	s := fmt.Sprintf("%s sheet(s) compared: %s added, %s removed, %s modified",
		humanize.Comma(int64(len(rep.Sheets))),
		humanize.Comma(int64(a)), humanize.Comma(int64(r)), humanize.Comma(int64(m)))
	if rep.Degraded() {
		s += " (degraded: key column " + strconv.Quote(rep.Key) + " not found)"
	}
	return s
}

// TableWriter renders one sheet as a borderless table honoring the color,
// titles and padding options.
func TableWriter(s sheetData, opts Options, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	var (
		headerStyle = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle   = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		colors      palette
	)
	if opts.Color {
		colors = getColors("colors")
		headerStyle = headerStyle.Foreground(colors.title)
	}

	fmt.Fprintln(w, headerStyle.Render(SheetTitle(s.diff)))
	for _, warning := range s.diff.Warnings {
		fmt.Fprintln(w, "warning: "+warning)
	}

	if len(s.rows) == 0 {
		fmt.Fprintln(w, "No differences.")
		return
	}

	included := s.attrs.Included()
	statusKey := s.attrs.Status()

	rows := make([][]string, 0, len(s.rows))
	for _, result := range s.rows {
		row := make([]string, 0, len(included))
		for _, attr := range included {
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case opts.Color && row >= 0 && row < len(s.rows):
				if c := colors.status(InterfaceToString(s.rows[row][statusKey])); c != nil {
					style = style.Foreground(c)
				}
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		headers := make([]string, 0, len(included))
		for _, attr := range included {
			headers = append(headers, attr.OutputKey)
		}
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// palette holds the terminal colors of text output.
type palette struct {
	title, added, removed, modified color.Color
}

func (p palette) status(s string) color.Color {
	switch differ.Classification(s) {
	case differ.ClassAdded:
		return p.added
	case differ.ClassRemoved:
		return p.removed
	case differ.ClassModified:
		return p.modified
	default:
		return nil
	}
}

// getColors resolves the text colors. An explicit config value wins;
// otherwise a default suited to the terminal background is used.
func getColors(key string) palette {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	resolveColor := func(key string, light string, dark string) color.Color {
		if colorCfg, err := config.GetString(key); err == nil && colorCfg != "" {
			return lipgloss.Color(colorCfg)
		}
		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	return palette{
		title:    resolveColor(key+".title", "#b08800", "#f6be00"),
		added:    resolveColor(key+".added", "#1a7f37", "#3cb371"),
		removed:  resolveColor(key+".removed", "#cf222e", "#fa8072"),
		modified: resolveColor(key+".modified", "#9a6700", "#ffd700"),
	}
}
