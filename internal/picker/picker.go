// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package picker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tfctl/bomctl/internal/table"
)

// ErrCancelled is returned by Run when the user quits without choosing.
var ErrCancelled = errors.New("key column selection cancelled")

// maxVisible caps the number of candidates listed at once.
const maxVisible = 10

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#3CB371"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

// Model is the Bubble Tea model of the key column picker. Typing narrows the
// candidate list, up/down moves the highlight, tab completes and enter
// chooses.
type Model struct {
	input     textinput.Model
	columns   []string
	matches   []string
	cursor    int
	choice    string
	cancelled bool
}

// New returns a picker over columns with the highlight on initial, if
// present.
func New(columns []string, initial string) Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Focus()

	m := Model{input: ti, columns: columns}
	m.refresh()
	for i, c := range m.matches {
		if c == initial {
			m.cursor = i
		}
	}
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses. Everything else goes to the text input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			switch {
			case len(m.matches) > 0:
				m.choice = m.matches[m.cursor]
			case strings.TrimSpace(m.input.Value()) != "":
				m.choice = strings.TrimSpace(m.input.Value())
			default:
				return m, nil
			}
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil

		case "tab":
			if len(m.matches) > 0 {
				m.input.SetValue(m.matches[m.cursor])
				m.input.CursorEnd()
				m.refresh()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

// refresh recomputes the matches for the current input. Matching is a case
// insensitive substring test.
func (m *Model) refresh() {
	q := strings.ToLower(strings.TrimSpace(m.input.Value()))
	matches := make([]string, 0, len(m.columns))
	for _, c := range m.columns {
		if q == "" || strings.Contains(strings.ToLower(c), q) {
			matches = append(matches, c)
		}
	}
	m.matches = matches
	if m.cursor >= len(m.matches) {
		m.cursor = max(len(m.matches)-1, 0)
	}
}

// View renders the prompt and the visible window of matches.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString("Select the key column (enter to choose, esc to cancel)\n")
	b.WriteString(promptStyle.Render("> ") + m.input.View() + "\n")

	if len(m.matches) == 0 {
		b.WriteString(dimStyle.Render("  no matching column; enter uses the text as typed") + "\n")
		return b.String()
	}

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.matches))
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+m.matches[i]) + "\n")
		} else {
			b.WriteString("  " + m.matches[i] + "\n")
		}
	}
	if end < len(m.matches) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(m.matches)-end)) + "\n")
	}
	return b.String()
}

// Choice returns the chosen column and whether one was chosen.
func (m Model) Choice() (string, bool) {
	return m.choice, m.choice != "" && !m.cancelled
}

// Run shows the picker on in/out and returns the chosen column.
func Run(columns []string, initial string, in io.Reader, out io.Writer) (string, error) {
	p := tea.NewProgram(New(columns, initial), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("picker failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return "", ErrCancelled
	}
	choice, ok := m.Choice()
	if !ok {
		return "", ErrCancelled
	}
	return choice, nil
}

// Interactive reports whether every f is a terminal.
func Interactive(files ...*os.File) bool {
	for _, f := range files {
		if f == nil || !term.IsTerminal(int(f.Fd())) {
			return false
		}
	}
	return len(files) > 0
}

// Candidates lists the columns of every sheet of both workbooks, old first,
// without duplicates.
func Candidates(workbooks ...table.Workbook) []string {
	var out []string
	for _, wb := range workbooks {
		for _, s := range wb.Sheets {
			out = table.UnionColumns(out, s.Columns)
		}
	}
	return out
}
