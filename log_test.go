// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLog() (*Log, *bytes.Buffer, *Prefs) {
	prefs := NewPrefs()
	prefs.Set("loglevel_console", "info")
	prefs.Set("color_mode", false)
	con := NewConsole(prefs)
	var buf bytes.Buffer
	con.SetOutput(&buf)
	return NewLog(prefs, con), &buf, prefs
}

func TestLogConsoleThreshold(t *testing.T) {
	log, buf, _ := testLog()

	log.Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	log.Info("shown")
	assert.Contains(t, buf.String(), "Info: shown")

	log.Error("broken")
	assert.Contains(t, buf.String(), "Error: broken")

	log.Critical("on fire")
	assert.Contains(t, buf.String(), "Critical: on fire")
}

func TestLogLevelChangeAtRuntime(t *testing.T) {
	log, buf, prefs := testLog()

	prefs.Set("loglevel_console", "error")
	log.Warning("quiet")
	assert.Empty(t, buf.String())

	prefs.Set("loglevel_console", "debug")
	log.Debug("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestLogFile(t *testing.T) {
	log, _, prefs := testLog()
	logfile := filepath.Join(t.TempDir(), "log.txt")
	prefs.Set("logfile", logfile)
	prefs.Set("loglevel_file", "debug")

	log.Debug("to file")
	data, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG]")
	assert.Contains(t, string(data), "to file")

	prefs.Set("loglevel_file", "error")
	log.Info("not recorded")
	data, _ = os.ReadFile(logfile)
	assert.NotContains(t, string(data), "not recorded")
}

func TestIsLogLevel(t *testing.T) {
	for _, level := range LogLevels {
		assert.True(t, IsLogLevel(level))
	}
	assert.False(t, IsLogLevel("debug9"))
}
