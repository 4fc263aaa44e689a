// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Prefs holds the shared shell preferences: a keyed map with optional
// file-backed persistence. One Prefs instance is shared by the shell, the
// nodes and the logger of a session.
//
// Reads of unknown keys return nil, never an error. When Autosave is enabled,
// every write persists the whole map to the configured file.
type Prefs struct {
	Filename string
	Autosave bool

	data map[string]interface{}
}

// NewPrefs returns an empty in-memory preferences store.
func NewPrefs() *Prefs {
	return &Prefs{data: make(map[string]interface{})}
}

// Get returns the value for key, or nil if the key is absent.
func (p *Prefs) Get(key string) interface{} {
	return p.data[key]
}

// Set stores value under key and persists if Autosave is enabled.
func (p *Prefs) Set(key string, value interface{}) {
	p.data[key] = value
	if p.Autosave {
		if err := p.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "cannot save preferences: %v\n", err)
		}
	}
}

// Delete removes key and persists if Autosave is enabled.
func (p *Prefs) Delete(key string) {
	delete(p.data, key)
	if p.Autosave {
		if err := p.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "cannot save preferences: %v\n", err)
		}
	}
}

// Contains reports whether key is present.
func (p *Prefs) Contains(key string) bool {
	_, ok := p.data[key]
	return ok
}

// Keys returns the sorted list of preference keys.
func (p *Prefs) Keys() []string {
	keys := make([]string, 0, len(p.data))
	for key := range p.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// GetBool returns the bool value for key, or def when the key is absent or
// not a bool.
func (p *Prefs) GetBool(key string, def bool) bool {
	if v, ok := p.data[key].(bool); ok {
		return v
	}
	return def
}

// GetInt returns the int value for key, or def when the key is absent or not
// a number. YAML numbers may decode as int or int64 depending on content.
func (p *Prefs) GetInt(key string, def int) int {
	switch v := p.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// GetString returns the string value for key, or def when the key is absent
// or not a string.
func (p *Prefs) GetString(key string, def string) string {
	if v, ok := p.data[key].(string); ok {
		return v
	}
	return def
}

// GetStringSlice returns the ordered string sequence stored under key, or nil
// when the key is absent. A decoded []interface{} is converted element-wise.
func (p *Prefs) GetStringSlice(key string) []string {
	switch v := p.data[key].(type) {
	case []string:
		return v
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	default:
		return nil
	}
}

// GetStringMap returns the string-to-string mapping stored under key, or an
// empty map when the key is absent.
func (p *Prefs) GetStringMap(key string) map[string]string {
	switch v := p.data[key].(type) {
	case map[string]string:
		return v
	case map[string]interface{}:
		result := make(map[string]string, len(v))
		for name, item := range v {
			if s, ok := item.(string); ok {
				result[name] = s
			}
		}
		return result
	default:
		return map[string]string{}
	}
}

// Bookmarks returns the bookmark name to path mapping.
func (p *Prefs) Bookmarks() map[string]string {
	return p.GetStringMap("bookmarks")
}

// SetBookmark records a bookmark. Going through Set keeps Autosave behavior:
// mutating the map in place would not trigger a keyed write.
func (p *Prefs) SetBookmark(name, path string) {
	bookmarks := p.Bookmarks()
	bookmarks[name] = path
	p.Set("bookmarks", bookmarks)
}

// DeleteBookmark removes a bookmark.
func (p *Prefs) DeleteBookmark(name string) {
	bookmarks := p.Bookmarks()
	delete(bookmarks, name)
	p.Set("bookmarks", bookmarks)
}

// Save writes the preferences to the configured file, or to filename if one
// is given. The write goes to a temporary file first and is renamed into
// place so a crash mid-save cannot truncate an existing file.
func (p *Prefs) Save(filename ...string) error {
	target := p.Filename
	if len(filename) == 1 {
		target = filename[0]
	}
	if target == "" {
		return nil
	}

	doc, err := yaml.Marshal(p.data)
	if err != nil {
		return err
	}

	tmp := target + ".tmp"
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, doc, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// Load reads the preferences back from the configured file, or from filename
// if one is given. A missing file is not an error.
func (p *Prefs) Load(filename ...string) error {
	source := p.Filename
	if len(filename) == 1 {
		source = filename[0]
	}
	if source == "" {
		return nil
	}

	doc, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	data := make(map[string]interface{})
	if err := yaml.Unmarshal(doc, &data); err != nil {
		return err
	}
	p.data = data
	return nil
}
