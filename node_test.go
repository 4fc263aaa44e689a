// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTree builds the reference tree used across the test suite:
//
//	/
//	+- a
//	|  +- x
//	|  +- y
//	+- b
func testTree(t *testing.T) (*Env, *Node, *bytes.Buffer) {
	t.Helper()
	env := NewEnv()
	var buf bytes.Buffer
	env.Con.SetOutput(&buf)
	env.Prefs.Set("loglevel_console", "warning")

	root := NewNode("root", env)
	a := NewNode("a", env)
	b := NewNode("b", env)
	x := NewNode("x", env)
	y := NewNode("y", env)
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))
	require.NoError(t, a.AddChild(x))
	require.NoError(t, a.AddChild(y))
	return env, root, &buf
}

func TestNodePaths(t *testing.T) {
	_, root, _ := testTree(t)

	assert.Equal(t, "/", root.Path())

	a, err := root.Child("a")
	require.NoError(t, err)
	assert.Equal(t, "/a", a.Path())

	x, err := a.Child("x")
	require.NoError(t, err)
	assert.Equal(t, "/a/x", x.Path())

	// Round trip: resolving a node's rendered path finds the node again.
	for _, node := range []*Node{root, a, x} {
		resolved, err := root.GetNode(node.Path())
		require.NoError(t, err)
		assert.Same(t, node, resolved)
	}
}

func TestGetNode(t *testing.T) {
	_, root, _ := testTree(t)
	a, _ := root.Child("a")
	x, _ := a.Child("x")

	tests := []struct {
		name  string
		start *Node
		path  string
		want  *Node
	}{
		{name: "empty path is current", start: a, path: "", want: a},
		{name: "dot is current", start: a, path: ".", want: a},
		{name: "dotdot is parent", start: x, path: "..", want: a},
		{name: "dotdot on root stays", start: root, path: "..", want: root},
		{name: "absolute", start: x, path: "/a/x", want: x},
		{name: "root", start: x, path: "/", want: root},
		{name: "relative chain", start: x, path: "../../a/x", want: x},
		{name: "mixed dots", start: root, path: "/a/./x/../y/.",
			want: mustGet(t, root, "/a/y")},
		{name: "slash runs collapse", start: root, path: "//a///x", want: x},
		{name: "trailing slash", start: root, path: "/a/", want: a},
		{name: "trailing wildcard", start: root, path: "/a/*", want: a},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.start.GetNode(tt.path)
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func mustGet(t *testing.T, n *Node, path string) *Node {
	t.Helper()
	node, err := n.GetNode(path)
	require.NoError(t, err)
	return node
}

func TestGetNodeErrors(t *testing.T) {
	env, root, _ := testTree(t)

	_, err := root.GetNode("/a/missing")
	var badPath *BadPathError
	require.ErrorAs(t, err, &badPath)
	assert.Contains(t, badPath.Error(), "/a/missing")

	_, err = root.GetNode("@nowhere")
	var badBookmark *BadBookmarkError
	require.ErrorAs(t, err, &badBookmark)
	assert.Equal(t, "nowhere", badBookmark.Name)

	env.Prefs.SetBookmark("deep", "/a/x")
	node, err := root.GetNode("@deep")
	require.NoError(t, err)
	assert.Equal(t, "/a/x", node.Path())
}

func TestAddChildRejections(t *testing.T) {
	env, root, _ := testTree(t)
	a, _ := root.Child("a")

	t.Run("self insertion", func(t *testing.T) {
		assert.Error(t, root.AddChild(root))
	})
	t.Run("already parented", func(t *testing.T) {
		assert.Error(t, root.AddChild(a))
	})
	t.Run("cycle", func(t *testing.T) {
		assert.Error(t, a.AddChild(root))
	})
	t.Run("duplicate sibling name", func(t *testing.T) {
		dup := NewNode("a", env)
		assert.Error(t, root.AddChild(dup))
	})
}

func TestDelChild(t *testing.T) {
	env, root, _ := testTree(t)
	a, _ := root.Child("a")

	require.NoError(t, root.DelChild(a))
	assert.True(t, a.IsRoot())
	_, err := root.Child("a")
	assert.Error(t, err)

	// A detached subtree can be attached elsewhere.
	b, _ := root.Child("b")
	require.NoError(t, b.AddChild(a))
	assert.Equal(t, "/b/a", a.Path())

	assert.Error(t, root.DelChild(NewNode("stranger", env)))
}

func TestBindArgs(t *testing.T) {
	cmd := &Command{
		Name: "greet",
		Signature: Signature{
			Params:   []string{"name", "loud"},
			Required: 1,
			Defaults: map[string]string{"loud": "false"},
		},
	}

	tests := []struct {
		name    string
		pparams []string
		kparams map[string]string
		want    map[string]string
		wantErr bool
	}{
		{
			name:    "positional",
			pparams: []string{"world", "true"},
			want:    map[string]string{"name": "world", "loud": "true"},
		},
		{
			name:    "keyword",
			kparams: map[string]string{"name": "world", "loud": "true"},
			want:    map[string]string{"name": "world", "loud": "true"},
		},
		{
			name:    "default fills optional",
			pparams: []string{"world"},
			want:    map[string]string{"name": "world", "loud": "false"},
		},
		{
			name:    "too many positionals",
			pparams: []string{"world", "true", "extra"},
			wantErr: true,
		},
		{
			name:    "missing required",
			kparams: map[string]string{"loud": "true"},
			wantErr: true,
		},
		{
			name:    "duplicate binding",
			pparams: []string{"world"},
			kparams: map[string]string{"name": "again"},
			wantErr: true,
		},
		{
			name:    "unknown keyword",
			pparams: []string{"world"},
			kparams: map[string]string{"volume": "11"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := bindArgs(cmd, tt.pparams, tt.kparams)
			if tt.wantErr {
				var badUsage *BadUsageError
				require.ErrorAs(t, err, &badUsage)
				assert.Equal(t, "greet", badUsage.Command)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, args.vals)
		})
	}
}

func TestBindArgsFreeParams(t *testing.T) {
	cmd := &Command{
		Name: "get",
		Signature: Signature{
			Params:      []string{"group"},
			FreePParams: true,
			FreeKParams: true,
		},
	}

	args, err := bindArgs(cmd, []string{"global", "one", "two"},
		map[string]string{"extra": "yes"})
	require.NoError(t, err)
	assert.Equal(t, "global", args.Value("group"))
	assert.Equal(t, []string{"one", "two"}, args.Extra)
	assert.Equal(t, map[string]string{"extra": "yes"}, args.ExtraKw)
}

func TestExecuteCommandNotFound(t *testing.T) {
	_, root, _ := testTree(t)
	_, err := root.ExecuteCommand("frobnicate", nil, nil)
	var notFound *CommandNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "frobnicate", notFound.Name)
}

func TestCommandSyntax(t *testing.T) {
	cmd := &Command{
		Name: "greet",
		Signature: Signature{
			Params:      []string{"name", "loud"},
			Required:    1,
			Defaults:    map[string]string{"loud": "false"},
			FreeKParams: true,
		},
	}
	syntax, defaults := cmd.Syntax()
	assert.Equal(t, "greet name [loud] [keyword=value...]", syntax)
	assert.Equal(t, "loud=false", defaults)
}
