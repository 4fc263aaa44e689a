// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	isatty "github.com/mattn/go-isatty"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/open-iscsi/configshell-go/internal/markup"
)

// Colors are the recognized text color names, in ANSI order.
var Colors = []string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
}

var ansiColors = map[string]lipgloss.Color{
	"black":   lipgloss.Color("0"),
	"red":     lipgloss.Color("1"),
	"green":   lipgloss.Color("2"),
	"yellow":  lipgloss.Color("3"),
	"blue":    lipgloss.Color("4"),
	"magenta": lipgloss.Color("5"),
	"cyan":    lipgloss.Color("6"),
	"white":   lipgloss.Color("7"),
}

// Console writes shell output and renders styled text. Color rendering
// honors the color_mode preference and is disabled when the output is not a
// terminal.
type Console struct {
	prefs *Prefs
	out   io.Writer
	tty   bool
}

// NewConsole returns a console writing to stdout.
func NewConsole(prefs *Prefs) *Console {
	return &Console{
		prefs: prefs,
		out:   os.Stdout,
		tty:   isatty.IsTerminal(os.Stdout.Fd()),
	}
}

// SetOutput redirects console output, mainly for tests. Styling is turned
// off for whatever writer is set.
func (c *Console) SetOutput(w io.Writer) {
	c.out = w
	c.tty = false
}

// Width returns the current terminal width, or 80 when the output is not a
// terminal or the size cannot be determined.
func (c *Console) Width() int {
	if f, ok := c.out.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// Display writes text followed by a newline.
func (c *Console) Display(text string) {
	fmt.Fprintln(c.out, text)
}

// RawWrite writes text without any additions.
func (c *Console) RawWrite(text string) {
	fmt.Fprint(c.out, text)
}

// colorEnabled reports whether styled output should be produced.
func (c *Console) colorEnabled() bool {
	return c.tty && c.prefs.GetBool("color_mode", true)
}

// Render returns text styled with the named color and styles ("bold",
// "underline"). An empty color applies styles only; when color is disabled
// the text passes through unchanged.
func (c *Console) Render(text, color string, styles ...string) string {
	if !c.colorEnabled() || text == "" {
		return text
	}
	style := lipgloss.NewStyle()
	if ansi, ok := ansiColors[color]; ok {
		style = style.Foreground(ansi)
	}
	for _, s := range styles {
		switch s {
		case "bold":
			style = style.Bold(true)
		case "underline":
			style = style.Underline(true)
		}
	}
	return style.Render(text)
}

// RenderDoc renders a help document to the console width.
func (c *Console) RenderDoc(doc markup.Doc) string {
	return markup.Render(doc, c.Width()-2, func(span markup.Span) string {
		if !c.colorEnabled() {
			return span.Text
		}
		switch span.Style {
		case markup.Bold:
			return c.Render(span.Text, "", "bold")
		case markup.Italic:
			return c.Render(span.Text, c.prefs.GetString("color_parameter", "magenta"))
		case markup.Code:
			return c.Render(span.Text, c.prefs.GetString("color_command", "cyan"))
		default:
			return span.Text
		}
	})
}

// DisplayDoc renders and writes a help document.
func (c *Console) DisplayDoc(doc markup.Doc) {
	c.RawWrite(c.RenderDoc(doc))
}

// DisplayMatches lays out completion candidates and writes them.
func (c *Console) DisplayMatches(matches []string, paramMode bool) {
	for _, line := range c.MatchLines(matches, paramMode) {
		c.Display(line)
	}
}

// MatchLines lays out completion candidates. Candidates are grouped and
// colored the way they read on the line: paths versus commands, or values
// versus keyword= entries when paramMode is set. Layout honors the
// completions_in_columns preference: at most one column per maxLength+2
// terminal columns, remainder by wrap.
func (c *Console) MatchLines(matches []string, paramMode bool) []string {
	if len(matches) == 0 {
		return nil
	}

	maxLength := 0
	for _, match := range matches {
		if w := runewidth.StringWidth(match); w > maxLength {
			maxLength = w
		}
	}
	maxLength += 2

	just := func(text string) string {
		return text + strings.Repeat(" ", maxLength-runewidth.StringWidth(text))
	}

	var first, second []string
	for _, match := range matches {
		if paramMode {
			if strings.HasSuffix(match, "=") {
				second = append(second, c.Render(just(match),
					c.prefs.GetString("color_keyword", "cyan")))
			} else {
				value := match
				if keyword, v, ok := strings.Cut(match, "="); ok && keyword != "" {
					value = v
				}
				first = append(first, c.Render(just(value),
					c.prefs.GetString("color_parameter", "magenta")))
			}
		} else {
			if strings.ContainsAny(match, "/*") || strings.HasPrefix(match, "@") {
				first = append(first, c.Render(just(match),
					c.prefs.GetString("color_path", "magenta")))
			} else {
				second = append(second, c.Render(just(match),
					c.prefs.GetString("color_command", "cyan")))
			}
		}
	}
	cells := append(first, second...)

	width := c.Width()
	perLine := 1
	if maxLength < width {
		perLine = width / maxLength
		if perLine*maxLength == width {
			perLine--
		}
		if perLine < 1 {
			perLine = 1
		}
	}

	var lines []string
	if !c.prefs.GetBool("completions_in_columns", true) {
		var line strings.Builder
		for i, cell := range cells {
			line.WriteString(cell)
			if (i+1)%perLine == 0 || i == len(cells)-1 {
				lines = append(lines, line.String())
				line.Reset()
			}
		}
		return lines
	}

	rows := (len(cells) + perLine - 1) / perLine
	for row := 0; row < rows; row++ {
		var line strings.Builder
		for col := 0; col < perLine; col++ {
			index := row + col*rows
			if index >= len(cells) {
				break
			}
			line.WriteString(cells[index])
		}
		lines = append(lines, line.String())
	}
	return lines
}
