// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/bomctl/internal/workbook"
)

// SpitSheets renders a sheet listing of source to w.
func SpitSheets(source string, infos []workbook.SheetInfo, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case "json":
		out, err := json.Marshal(infos)
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(infos)
		if err != nil {
			return fmt.Errorf("failed to marshal yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	if opts.Color {
		headerStyle = headerStyle.Foreground(getColors("colors").title)
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			strconv.Itoa(info.Index),
			info.Name,
			humanize.Comma(int64(info.Rows)),
			strings.Join(info.Columns, ", "),
		})
	}

	pad := opts.Padding
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if row == table.HeaderRow {
				style = headerStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Rows(rows...)
	if opts.Titles {
		t = t.Headers("index", "name", "rows", "columns").BorderHeader(false)
	}

	fmt.Fprintln(w, headerStyle.Render(source))
	fmt.Fprintln(w, t)
	fmt.Fprintf(w, "%s sheet(s)\n", humanize.Comma(int64(len(infos))))
	return nil
}
