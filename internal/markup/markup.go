// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package markup is a minimal tagged-text model for command help. Commands
// supply structured documents instead of marked-up strings; the console
// renders them with whatever styling it has available.
package markup

import "strings"

// SpanStyle selects the inline style of a Span.
type SpanStyle int

const (
	Plain SpanStyle = iota
	Bold
	Italic
	Code
)

// Span is a run of text with one inline style.
type Span struct {
	Style SpanStyle
	Text  string
}

// BlockKind selects the block-level role of a Block.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	ListItem
	LiteralBlock
)

// Block is one block-level element: a heading, a paragraph, a list item or a
// literal block. Literal blocks carry raw text and are never rewrapped.
type Block struct {
	Kind  BlockKind
	Spans []Span
}

// Doc is an ordered sequence of blocks.
type Doc struct {
	Blocks []Block
}

// T returns a plain span.
func T(text string) Span { return Span{Style: Plain, Text: text} }

// B returns a bold span.
func B(text string) Span { return Span{Style: Bold, Text: text} }

// I returns an italic span.
func I(text string) Span { return Span{Style: Italic, Text: text} }

// C returns a code span.
func C(text string) Span { return Span{Style: Code, Text: text} }

// H returns a heading block.
func H(text string) Block {
	return Block{Kind: Heading, Spans: []Span{T(text)}}
}

// P returns a paragraph block.
func P(spans ...Span) Block {
	return Block{Kind: Paragraph, Spans: spans}
}

// Item returns a list item block.
func Item(spans ...Span) Block {
	return Block{Kind: ListItem, Spans: spans}
}

// Lit returns a literal block.
func Lit(text string) Block {
	return Block{Kind: LiteralBlock, Spans: []Span{T(text)}}
}

// Text returns the unstyled text of a block.
func (b Block) Text() string {
	var sb strings.Builder
	for _, span := range b.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// Renderer styles a single span. The console supplies one; the fallback
// renders spans unstyled.
type Renderer func(span Span) string

// Render flattens a document to text. Headings are underlined with '=',
// list items are indented with a dash, paragraphs are wrapped to width, and
// literal blocks pass through untouched.
func Render(doc Doc, width int, render Renderer) string {
	if render == nil {
		render = func(span Span) string { return span.Text }
	}
	if width <= 0 {
		width = 80
	}

	var sb strings.Builder
	for _, block := range doc.Blocks {
		switch block.Kind {
		case Heading:
			title := block.Text()
			sb.WriteString(render(Span{Style: Bold, Text: title}))
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat("=", len(title)))
			sb.WriteString("\n")
		case ListItem:
			sb.WriteString("  - ")
			for _, span := range block.Spans {
				sb.WriteString(render(span))
			}
			sb.WriteString("\n")
		case LiteralBlock:
			sb.WriteString(block.Text())
			sb.WriteString("\n")
		default:
			sb.WriteString(wrapSpans(block.Spans, width, render))
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// wrapSpans greedily wraps styled words to the given width. Styling is
// applied per word so a wrap point never splits an escape sequence.
func wrapSpans(spans []Span, width int, render Renderer) string {
	type word struct {
		style SpanStyle
		text  string
	}
	var words []word
	for _, span := range spans {
		for _, w := range strings.Fields(span.Text) {
			words = append(words, word{style: span.Style, text: w})
		}
	}

	var sb strings.Builder
	lineLen := 0
	for i, w := range words {
		sep := ""
		if i > 0 {
			sep = " "
		}
		if lineLen > 0 && lineLen+len(sep)+len(w.text) > width {
			sb.WriteString("\n")
			lineLen = 0
			sep = ""
		}
		sb.WriteString(sep)
		sb.WriteString(render(Span{Style: w.style, Text: w.text}))
		lineLen += len(sep) + len(w.text)
	}
	return sb.String()
}
