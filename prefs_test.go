// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsAbsentKey(t *testing.T) {
	p := NewPrefs()
	assert.Nil(t, p.Get("missing"))
	assert.False(t, p.Contains("missing"))
	assert.Equal(t, 7, p.GetInt("missing", 7))
	assert.Equal(t, "fallback", p.GetString("missing", "fallback"))
	assert.True(t, p.GetBool("missing", true))
}

func TestPrefsRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prefs.bin")

	p := NewPrefs()
	p.Filename = file
	p.Set("color_mode", true)
	p.Set("prompt_length", 30)
	p.Set("color_path", "magenta")
	p.Set("path_history", []string{"/", "/a", "/a/x"})
	p.Set("bookmarks", map[string]string{"here": "/a/x"})
	require.NoError(t, p.Save())

	q := NewPrefs()
	q.Filename = file
	require.NoError(t, q.Load())
	assert.True(t, q.GetBool("color_mode", false))
	assert.Equal(t, 30, q.GetInt("prompt_length", 0))
	assert.Equal(t, "magenta", q.GetString("color_path", ""))
	assert.Equal(t, []string{"/", "/a", "/a/x"}, q.GetStringSlice("path_history"))
	assert.Equal(t, map[string]string{"here": "/a/x"}, q.Bookmarks())
}

func TestPrefsLoadMissingFile(t *testing.T) {
	p := NewPrefs()
	p.Filename = filepath.Join(t.TempDir(), "does-not-exist.bin")
	assert.NoError(t, p.Load())
}

func TestPrefsAutosave(t *testing.T) {
	file := filepath.Join(t.TempDir(), "prefs.bin")

	p := NewPrefs()
	p.Filename = file
	p.Autosave = true
	p.Set("tree_show_root", false)

	q := NewPrefs()
	q.Filename = file
	require.NoError(t, q.Load())
	assert.False(t, q.GetBool("tree_show_root", true))

	// No temporary file is left behind by the write-then-rename.
	_, err := os.Stat(file + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestPrefsBookmarks(t *testing.T) {
	p := NewPrefs()
	p.SetBookmark("here", "/a/x")
	assert.Equal(t, "/a/x", p.Bookmarks()["here"])
	p.DeleteBookmark("here")
	assert.Empty(t, p.Bookmarks())
}
