// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

// pickLine displays lines full screen and lets the user select one with the
// arrow keys. '/' starts fuzzy filtering on what is typed next. It returns
// the index of the selected line, or false when the selection was cancelled.
// The terminal is restored on every exit path, including panics inside the
// program loop.
func pickLine(lines []string, start int) (int, bool) {
	m := pickerModel{lines: lines}
	m.resetVisible()
	m.moveTo(start)

	p := tea.NewProgram(m, tea.WithAltScreen())
	out, err := p.Run()
	if err != nil {
		return 0, false
	}
	final := out.(pickerModel)
	if final.cancelled || len(final.visible) == 0 {
		return 0, false
	}
	return final.visible[final.cursor], true
}

type pickerModel struct {
	lines     []string
	visible   []int
	cursor    int
	filter    string
	filtering bool
	cancelled bool
}

func (m *pickerModel) resetVisible() {
	m.visible = make([]int, len(m.lines))
	for i := range m.lines {
		m.visible[i] = i
	}
}

func (m *pickerModel) moveTo(index int) {
	for i, v := range m.visible {
		if v == index {
			m.cursor = i
			return
		}
	}
	m.cursor = 0
}

func (m *pickerModel) applyFilter() {
	if m.filter == "" {
		m.resetVisible()
		m.cursor = 0
		return
	}
	m.visible = m.visible[:0]
	for _, match := range fuzzy.Find(m.filter, m.lines) {
		m.visible = append(m.visible, match.Index)
	}
	m.cursor = 0
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filtering {
		switch key.String() {
		case "enter":
			m.filtering = false
		case "esc":
			m.filtering = false
			m.filter = ""
			m.applyFilter()
		case "backspace":
			if len(m.filter) > 0 {
				m.filter = m.filter[:len(m.filter)-1]
				m.applyFilter()
			}
		default:
			if len(key.String()) == 1 {
				m.filter += key.String()
				m.applyFilter()
			}
		}
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "/":
		m.filtering = true
		m.filter = ""
	case "enter":
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	var sb strings.Builder
	sb.WriteString("Select a path:\n\n")
	for i, index := range m.visible {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", cursor, m.lines[index]))
	}
	if m.filtering {
		sb.WriteString(fmt.Sprintf("\n/%s\n", m.filter))
	} else {
		sb.WriteString("\nUP/DOWN: move, /: filter, ENTER: go, Q/ESCAPE: cancel\n")
	}
	return sb.String()
}
