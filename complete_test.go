// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testShell builds a shell over the reference tree with output captured.
func testShell(t *testing.T) (*Shell, *bytes.Buffer) {
	t.Helper()
	s, err := NewShell("")
	require.NoError(t, err)
	var buf bytes.Buffer
	s.env.Con.SetOutput(&buf)

	root := NewNode("root", s.env)
	a := NewNode("a", s.env)
	b := NewNode("b", s.env)
	x := NewNode("x", s.env)
	y := NewNode("y", s.env)
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))
	require.NoError(t, a.AddChild(x))
	require.NoError(t, a.AddChild(y))
	s.AttachRootNode(root)
	return s, &buf
}

// greeter registers the canonical test command: greet(name, loud=false) with
// a completion hook for name.
func greeter(t *testing.T, s *Shell) *struct {
	name string
	loud bool
} {
	t.Helper()
	got := &struct {
		name string
		loud bool
	}{}
	s.CurrentNode().RegisterCommand(&Command{
		Name: "greet",
		Signature: Signature{
			Params:   []string{"name", "loud"},
			Required: 1,
			Defaults: map[string]string{"loud": "false"},
		},
		Run: func(n *Node, args Args) (*Result, error) {
			got.name = args.Value("name")
			loud, err := TypeBool.Parse(args.Value("loud"))
			if err != nil {
				return nil, err
			}
			got.loud = loud.(bool)
			return nil, nil
		},
		Complete: func(params map[string]string, text, param string) []string {
			if param != "name" {
				return nil
			}
			var out []string
			for _, candidate := range []string{"world", "wide"} {
				if strings.HasPrefix(candidate, text) {
					out = append(out, candidate)
				}
			}
			return out
		},
	})
	return got
}

func TestCompletePathStrategy(t *testing.T) {
	s, _ := testShell(t)

	// Cursor at the end of "/a/".
	c := s.Complete("/a/", 0, 3)
	assert.Equal(t, []string{"/a/* ", "/a/x/", "/a/y/"}, c.Candidates)
	assert.Equal(t, "path", c.Hint)
	assert.False(t, c.ParamMode)

	// Cursor just before the space in "/a/* ".
	c = s.Complete("/a/* ", 0, 4)
	assert.Equal(t, []string{"/a/* "}, c.Candidates)
}

func TestCompletePathClosure(t *testing.T) {
	s, _ := testShell(t)
	s.env.Prefs.SetBookmark("ax", "/a/x")

	for _, prefix := range []string{"/", "/a", "/a/", "/a/x"} {
		c := s.Complete(prefix, 0, len(prefix))
		for _, candidate := range c.Candidates {
			if strings.HasPrefix(candidate, "@") {
				continue
			}
			assert.True(t, strings.HasPrefix(candidate, prefix),
				"candidate %q does not extend prefix %q", candidate, prefix)
		}
	}
}

func TestCompletePathSingleLeaf(t *testing.T) {
	s, _ := testShell(t)

	// b is the only match and has no children: candidate ends the token.
	c := s.Complete("/b", 0, 2)
	assert.Equal(t, []string{"/b "}, c.Candidates)
}

func TestCompleteCommandStrategy(t *testing.T) {
	s, _ := testShell(t)
	s.env.Prefs.SetBookmark("ax", "/a/x")

	// Empty buffer: phantom token, command position.
	c := s.Complete("", 0, 0)
	for _, builtin := range []string{"bookmarks", "cd", "exit", "get", "help",
		"ls", "pwd", "set"} {
		assert.Contains(t, c.Candidates, builtin)
	}
	assert.Contains(t, c.Candidates, "a/")
	assert.Contains(t, c.Candidates, "b/")
	assert.Contains(t, c.Candidates, "/")
	assert.Contains(t, c.Candidates, "* ")
	assert.Contains(t, c.Candidates, "@ax")
	assert.Equal(t, "path|command", c.Hint)

	// A prefix matching commands only.
	c = s.Complete("he", 0, 2)
	assert.Equal(t, []string{"help "}, c.Candidates)
	assert.Equal(t, "command", c.Hint)

	// With a path already on the line, children are not offered again.
	c = s.Complete("/a ", 3, 3)
	assert.Contains(t, c.Candidates, "ls")
	assert.NotContains(t, c.Candidates, "a/")
	assert.Equal(t, "command", c.Hint)
}

func TestCompletePParamStrategy(t *testing.T) {
	s, _ := testShell(t)
	greeter(t, s)

	// First positional: hook candidates plus keywords.
	c := s.Complete("greet ", 6, 6)
	assert.Equal(t, []string{"world", "wide", "name=", "loud="}, c.Candidates)
	assert.True(t, c.ParamMode)
	assert.Equal(t, "name|keyword=", c.Hint)

	// Typed prefix narrows the hook candidates.
	c = s.Complete("greet wo", 6, 8)
	assert.Equal(t, []string{"world"}, c.Candidates)

	// Second positional slot: the loud keyword is still offered.
	c = s.Complete("greet world ", 12, 12)
	assert.Contains(t, c.Candidates, "loud=")
	assert.NotContains(t, c.Candidates, "name=")

	// All positional slots filled: nothing more to complete.
	c = s.Complete("greet world true ", 17, 17)
	assert.Empty(t, c.Candidates)
}

func TestCompleteKParamStrategy(t *testing.T) {
	s, _ := testShell(t)
	greeter(t, s)

	c := s.Complete("greet name=w", 6, 12)
	assert.Equal(t, []string{"name=world", "name=wide"}, c.Candidates)
	assert.True(t, c.ParamMode)
	assert.Equal(t, "name", c.Hint)

	c = s.Complete("greet name=", 6, 11)
	assert.Equal(t, []string{"name=world", "name=wide"}, c.Candidates)
}

func TestCompleteSetValues(t *testing.T) {
	s, _ := testShell(t)

	// Group name completion.
	c := s.Complete("set gl", 4, 6)
	assert.Equal(t, []string{"global "}, c.Candidates)

	// Keyword completion within the group.
	c = s.Complete("set global tree_round", 11, 21)
	assert.Contains(t, c.Candidates, "tree_round_nodes=")

	// Enumerated values for a bool parameter. The group completer ends a
	// lone candidate with a space.
	c = s.Complete("set global tree_round_nodes=t", 11, 29)
	assert.Equal(t, []string{"tree_round_nodes=true "}, c.Candidates)
}

func TestCompleteUnknownToken(t *testing.T) {
	s, _ := testShell(t)

	// Cursor range matching no token yields nothing.
	c := s.Complete("ls", 1, 1)
	assert.Empty(t, c.Candidates)
}
