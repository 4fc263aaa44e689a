// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"sort"
	"strings"
)

// Completion is what the engine hands back to the line editor: candidate
// strings in discovery order, a short colored hint naming what the cursor is
// completing, and whether the candidates are parameters (which changes how
// the editor colors the listing).
type Completion struct {
	Candidates []string
	Hint       string
	ParamMode  bool
}

// Complete computes completion candidates for the token occupying the byte
// range [begin, end) of buffer. It is a pure function of the buffer, the
// cursor range and the shell state; it knows nothing about how the editor
// displays the result.
func (s *Shell) Complete(buffer string, begin, end int) Completion {
	parsed := ParseLine(buffer)

	tokens := parsed.Tokens
	tokenEnd := end
	if begin == end {
		// No text under the cursor. Re-parse with a phantom byte so the
		// grammar assigns the span a kind.
		s.env.Log.Debug("faking text entry on command line")
		tokens = ParseLine(buffer + "x").Tokens
		tokenEnd = end + 1
	}

	var kind TokenKind
	found := false
	for _, token := range tokens {
		if token.Start == begin && token.End == tokenEnd {
			kind = token.Kind
			found = true
			break
		}
	}
	if !found {
		return Completion{}
	}

	text := buffer[begin:end]
	return s.dispatchCompletion(kind, text, parsed)
}

// dispatchCompletion routes a completion request to the strategy matching
// the token kind under the cursor.
func (s *Shell) dispatchCompletion(kind TokenKind, text string, parsed ParsedLine) Completion {
	s.env.Log.Debug("dispatching completion for %s token, text=%q path=%q command=%q",
		kind, text, parsed.Path, parsed.Command)

	// With an iterator wildcard on the line, command and parameter
	// completion run against the first child, commands being common to the
	// iteration set.
	path, iterall := SplitWildcard(parsed.Path)
	cplPath := path
	if iterall {
		if target, err := s.current.GetNode(path); err == nil {
			if children := target.Children(); len(children) > 0 {
				cplPath = children[0].Path()
			}
		}
	}

	switch kind {
	case TokenCommand:
		return s.completeCommandToken(text, parsed.Path, cplPath)
	case TokenPath:
		return s.completePathToken(text)
	case TokenPParam:
		return s.completePParamToken(text, cplPath, parsed)
	default:
		return s.completeKParamToken(text, cplPath, parsed)
	}
}

func (s *Shell) hintText(text, colorKey string) string {
	return s.env.Con.Render(text, s.env.Prefs.GetString(colorKey, ""))
}

// completeCommandToken completes a partial command token, which could also
// be the beginning of a path when none is on the line yet.
func (s *Shell) completeCommandToken(text, rawPath, cplPath string) Completion {
	c := Completion{}

	target, err := s.current.GetNode(cplPath)
	if err != nil {
		return c
	}
	for _, command := range target.Commands() {
		if strings.HasPrefix(command, text) {
			c.Candidates = append(c.Candidates, command)
		}
	}
	if len(c.Candidates) == 1 {
		c.Candidates[0] += " "
	}

	if rawPath == "" {
		// No identified path yet on the command line, this might be it.
		var pathCompletions []string
		for _, child := range s.current.Children() {
			if strings.HasPrefix(child.Name(), text) {
				pathCompletions = append(pathCompletions, child.Name()+"/")
			}
		}
		if text == "" {
			pathCompletions = append(pathCompletions, "/")
			if len(s.current.Children()) > 1 {
				pathCompletions = append(pathCompletions, "* ")
			}
		}

		switch {
		case len(pathCompletions) > 0 && len(c.Candidates) > 0:
			c.Hint = s.hintText("path", "color_path") + "|" +
				s.hintText("command", "color_command")
		case len(pathCompletions) > 0:
			c.Hint = s.hintText("path", "color_path")
		default:
			c.Hint = s.hintText("command", "color_command")
		}

		if len(pathCompletions) == 1 &&
			!strings.HasSuffix(pathCompletions[0], " ") &&
			!strings.HasSuffix(pathCompletions[0], "*") {
			if node, err := s.current.GetNode(pathCompletions[0]); err == nil &&
				len(node.Children()) == 0 {
				pathCompletions[0] += " "
			}
		}
		c.Candidates = append(c.Candidates, pathCompletions...)
	} else {
		c.Hint = s.hintText("command", "color_command")
	}

	c.Candidates = append(c.Candidates, s.bookmarkCompletions(text)...)
	return c
}

// completePathToken completes a partial path token.
func (s *Shell) completePathToken(text string) Completion {
	c := Completion{Hint: s.hintText("path", "color_path")}

	if strings.HasSuffix(text, ".") {
		text += "/"
	}
	basedir := ""
	partial := text
	if i := strings.LastIndex(text, "/"); i >= 0 {
		basedir = text[:i+1]
		partial = text[i+1:]
	}
	target, err := s.current.GetNode(basedir)
	if err != nil {
		return c
	}
	children := target.Children()

	// Not suggesting the wildcard for a single child keeps a fast TAB
	// filling in that child's name.
	if len(children) > 1 && (partial == "" || partial == "*") {
		c.Candidates = append(c.Candidates, basedir+"* ")
	}
	for _, child := range children {
		if strings.HasPrefix(child.Name(), partial) {
			c.Candidates = append(c.Candidates, basedir+child.Name()+"/")
		}
	}

	c.Candidates = append(c.Candidates, s.bookmarkCompletions(text)...)

	if len(c.Candidates) == 1 && !strings.HasSuffix(c.Candidates[0], "* ") {
		if node, err := s.current.GetNode(c.Candidates[0]); err == nil &&
			len(node.Children()) == 0 {
			c.Candidates[0] = strings.TrimRight(c.Candidates[0], "/") + " "
		}
	}
	return c
}

// completePParamToken completes a positional parameter token, which can also
// be the keyword part of a keyword=value parameter: until the '=' sign is on
// the line the parser cannot know better.
func (s *Shell) completePParamToken(text, cplPath string, parsed ParsedLine) Completion {
	c := Completion{ParamMode: true}

	target, err := s.current.GetNode(cplPath)
	if err != nil {
		return c
	}
	cmd, err := target.Command(parsed.Command)
	if err != nil {
		return c
	}
	sig := cmd.Signature
	params := sig.Params
	pparams := parsed.PParams
	kparams := parsed.KParams

	bound := boundParameters(params, pparams, kparams)
	completionMethod := target.CompletionFor(parsed.Command)

	// Is another positional parameter legal here?
	pparamOK := true
	brokeOut := false
	for index, param := range params {
		if _, named := kparams[param]; named {
			if index <= len(pparams) {
				pparamOK = false
				brokeOut = true
				break
			}
		} else if (strings.TrimSpace(text) == "" && len(pparams) == len(params)) ||
			len(pparams) > len(params) {
			pparamOK = false
			brokeOut = true
			break
		}
	}
	if !brokeOut && len(params) == 0 {
		pparamOK = false
	}

	currentParam := ""
	if pparamOK {
		index := len(pparams)
		if text != "" {
			index = len(pparams) - 1
		}
		if index >= 0 && index < len(params) {
			currentParam = params[index]
			if completionMethod != nil {
				c.Candidates = append(c.Candidates,
					completionMethod(bound, text, currentParam)...)
			}
		}
	}

	// Keywords for parameters not already on the line.
	offset := 0
	if text != "" {
		offset = 1
	}
	var keywordCompletions []string
	from := len(pparams) - offset
	if from < 0 {
		from = 0
	}
	for _, param := range params[min(from, len(params)):] {
		if _, named := kparams[param]; named {
			continue
		}
		if strings.HasPrefix(param, text) {
			keywordCompletions = append(keywordCompletions, param+"=")
		}
	}

	switch {
	case len(keywordCompletions) > 0 && currentParam != "":
		c.Hint = s.hintText(currentParam, "color_parameter") + "|" +
			s.hintText("keyword=", "color_keyword")
	case len(keywordCompletions) > 0:
		c.Hint = s.hintText("keyword=", "color_keyword")
	case currentParam != "":
		c.Hint = s.hintText(currentParam, "color_parameter")
	}
	c.Candidates = append(c.Candidates, keywordCompletions...)

	if (sig.FreePParams || sig.FreeKParams) && completionMethod != nil {
		free := completionMethod(bound, text, "*")
		doFreePParams, doFreeKParams := false, false
		for _, candidate := range free {
			if strings.HasSuffix(candidate, "=") {
				doFreeKParams = true
			} else {
				doFreePParams = true
			}
		}
		if doFreePParams {
			c.Hint = strings.TrimRight(
				s.hintText("free_parameter", "color_parameter")+"|"+c.Hint, "|")
		}
		if doFreeKParams && !strings.Contains(c.Hint, "keyword=") {
			c.Hint = strings.TrimRight(
				s.hintText("keyword=", "color_keyword")+"|"+c.Hint, "|")
		}
		c.Candidates = append(c.Candidates, free...)
	}
	return c
}

// completeKParamToken completes the value side of a keyword=value token.
func (s *Shell) completeKParamToken(text, cplPath string, parsed ParsedLine) Completion {
	c := Completion{ParamMode: true}

	target, err := s.current.GetNode(cplPath)
	if err != nil {
		return c
	}
	cmd, err := target.Command(parsed.Command)
	if err != nil {
		return c
	}

	keyword, value, _ := strings.Cut(text, "=")
	c.Hint = s.hintText(keyword, "color_parameter")

	completionMethod := target.CompletionFor(parsed.Command)
	if completionMethod == nil {
		return c
	}
	bound := boundParameters(cmd.Signature.Params, parsed.PParams, parsed.KParams)
	for _, candidate := range completionMethod(bound, value, keyword) {
		c.Candidates = append(c.Candidates, keyword+"="+candidate)
	}
	return c
}

// bookmarkCompletions returns @name candidates whose name starts with the
// prefix stripped of a leading '@'.
func (s *Shell) bookmarkCompletions(text string) []string {
	prefix := strings.TrimLeft(text, "@")
	var bookmarks []string
	for _, name := range sortedKeys(s.env.Prefs.Bookmarks()) {
		if strings.HasPrefix(name, prefix) {
			bookmarks = append(bookmarks, "@"+name)
		}
	}
	return bookmarks
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// boundParameters maps the parameters already on the line to their formal
// names: positionals by index, then keywords.
func boundParameters(params, pparams []string, kparams map[string]string) map[string]string {
	bound := make(map[string]string)
	for i, value := range pparams {
		if i < len(params) {
			bound[params[i]] = value
		}
	}
	for keyword, value := range kparams {
		bound[keyword] = value
	}
	return bound
}
