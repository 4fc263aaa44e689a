// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// The interactive line editor. The completion engine itself is a pure
// function on the shell; this file is the collaborator that feeds it cursor
// positions and displays what it returns.

type lineResult int

const (
	lineEntered lineResult = iota
	lineAborted
	lineEOF
)

// readLine prompts for one command line with tab completion. An interrupt
// aborts the pending line; end of input reads as EOF.
func (s *Shell) readLine() (string, lineResult) {
	input := textinput.New()
	input.Prompt = s.Prompt()
	input.Focus()

	m := editorModel{shell: s, input: input}
	p := tea.NewProgram(m)
	out, err := p.Run()
	if err != nil {
		return "", lineEOF
	}
	final := out.(editorModel)
	if final.eof {
		return "", lineEOF
	}
	if final.aborted {
		return "", lineAborted
	}
	return final.input.Value(), lineEntered
}

type editorModel struct {
	shell   *Shell
	input   textinput.Model
	aborted bool
	eof     bool
}

func (m editorModel) Init() tea.Cmd { return textinput.Blink }

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m, tea.Quit
		case "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		case "ctrl+d":
			if m.input.Value() == "" {
				m.eof = true
				return m, tea.Quit
			}
		case "tab":
			return m.complete()
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m editorModel) View() string {
	return m.input.View()
}

// complete runs the completion engine on the token under the cursor. A
// single candidate (or an unambiguous common prefix) is inserted in place;
// otherwise the candidate list and the hint line are printed above the
// prompt.
func (m editorModel) complete() (tea.Model, tea.Cmd) {
	buffer := m.input.Value()
	cursor := m.input.Position()
	begin := tokenStart(buffer, cursor)

	completion := m.shell.Complete(buffer, begin, cursor)
	if len(completion.Candidates) == 0 {
		return m, nil
	}

	text := buffer[begin:cursor]
	if replacement := commonPrefix(completion.Candidates); len(replacement) > len(text) {
		m.input.SetValue(buffer[:begin] + replacement + buffer[cursor:])
		m.input.SetCursor(begin + len(replacement))
		return m, nil
	}

	var lines []string
	lines = append(lines, m.shell.env.Con.MatchLines(
		completion.Candidates, completion.ParamMode)...)
	lines = append(lines, m.hintLine(buffer, begin, cursor, completion))
	return m, tea.Println(strings.Join(lines, "\n"))
}

// hintLine pads dots up to the column of the token (or of a kparam value)
// and appends the hint.
func (m editorModel) hintLine(buffer string, begin, end int, completion Completion) string {
	column := len(m.input.Prompt) + begin
	text := buffer[begin:end]
	if keyword, _, found := strings.Cut(text, "="); found {
		column += len(keyword) + 1
	}
	return strings.Repeat(".", column) + completion.Hint
}

// tokenStart returns the offset where the token containing the cursor
// begins.
func tokenStart(buffer string, cursor int) int {
	begin := cursor
	for begin > 0 && buffer[begin-1] != ' ' && buffer[begin-1] != '\t' {
		begin--
	}
	return begin
}

// commonPrefix returns the longest prefix shared by all candidates.
func commonPrefix(candidates []string) string {
	prefix := candidates[0]
	for _, candidate := range candidates[1:] {
		for !strings.HasPrefix(candidate, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
