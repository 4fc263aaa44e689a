// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/apex/log"
)

// LogLevels are the recognized log level names, most to least critical. A
// destination set to a level receives that level and everything more
// critical.
var LogLevels = []string{"critical", "error", "warning", "info", "debug"}

var logColors = map[string]string{
	"critical": "red",
	"error":    "red",
	"warning":  "blue",
	"info":     "green",
	"debug":    "blue",
}

// IsLogLevel reports whether name is a recognized log level.
func IsLogLevel(name string) bool {
	return logLevelIndex(name) >= 0
}

func logLevelIndex(name string) int {
	for i, level := range LogLevels {
		if level == name {
			return i
		}
	}
	return -1
}

// Log routes messages to the console and to an optional logfile. The levels
// for both destinations and the logfile path come from the shared
// preferences (loglevel_console, loglevel_file, logfile), so they can be
// changed at runtime with the set command.
type Log struct {
	logger *log.Logger
}

// NewLog wires an apex logger with a preferences-driven handler. Level
// filtering happens in the handler, per destination, so the apex level is
// pinned to debug.
func NewLog(prefs *Prefs, con *Console) *Log {
	return &Log{
		logger: &log.Logger{
			Handler: &prefsHandler{prefs: prefs, con: con},
			Level:   log.DebugLevel,
		},
	}
}

// prefsHandler implements the apex log.Handler interface. Each entry is
// fanned out to the console and the logfile independently, each with its own
// level threshold.
type prefsHandler struct {
	prefs *Prefs
	con   *Console
}

func (h *prefsHandler) HandleLog(e *log.Entry) error {
	level := entryLevel(e)

	if logfile := h.prefs.GetString("logfile", ""); logfile != "" {
		threshold := h.prefs.GetString("loglevel_file", "debug")
		if logLevelIndex(threshold) >= logLevelIndex(level) {
			h.append(logfile, level, e.Message)
		}
	}

	threshold := h.prefs.GetString("loglevel_console", "info")
	if logLevelIndex(threshold) >= logLevelIndex(level) {
		if h.prefs.GetBool("color_mode", true) {
			h.con.Display(h.con.Render(e.Message, logColors[level]))
		} else {
			h.con.Display(fmt.Sprintf("%s: %s",
				strings.ToUpper(level[:1])+level[1:], e.Message))
		}
	}
	return nil
}

// append writes one timestamped line to the logfile. Failures are swallowed:
// a broken logfile must not take the shell down.
func (h *prefsHandler) append(logfile, level, msg string) {
	path := logfile
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	date := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] %s %s\n", strings.ToUpper(level), date, msg)
}

// entryLevel maps an apex entry back to a configshell level name. Critical
// messages travel as error entries with a critical field, since apex's own
// fatal level exits the process.
func entryLevel(e *log.Entry) string {
	if _, ok := e.Fields["critical"]; ok {
		return "critical"
	}
	switch e.Level {
	case log.DebugLevel:
		return "debug"
	case log.InfoLevel:
		return "info"
	case log.WarnLevel:
		return "warning"
	default:
		return "error"
	}
}

// Debug logs a debug message.
func (l *Log) Debug(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

// Info logs an info message.
func (l *Log) Info(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

// Warning logs a warning message.
func (l *Log) Warning(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

// Error logs an error message.
func (l *Log) Error(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

// Critical logs a critical message.
func (l *Log) Critical(format string, args ...interface{}) {
	l.logger.WithField("critical", true).Errorf(format, args...)
}

// Exception logs an error with a stack trace at error level.
func (l *Log) Exception(err error) {
	l.logger.Errorf("%v\n%s", err, debug.Stack())
}
