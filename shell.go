// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package configshell is a framework for building interactive hierarchical
// configuration command line interfaces. A host application supplies a tree
// of configuration nodes; the framework presents it as a filesystem-like
// shell with navigation, node-local commands, tab completion, bookmarks and
// shared preferences.
package configshell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	isatty "github.com/mattn/go-isatty"
)

// defaultPrefs seed the preferences on shell creation; existing keys from a
// loaded preferences file win.
var defaultPrefs = map[string]interface{}{
	"color_path":             "magenta",
	"color_command":          "cyan",
	"color_parameter":        "magenta",
	"color_keyword":          "cyan",
	"completions_in_columns": true,
	"loglevel_console":       "info",
	"loglevel_file":          "debug",
	"color_mode":             true,
	"prompt_length":          30,
	"tree_max_depth":         0,
	"tree_status_mode":       true,
	"tree_round_nodes":       true,
	"tree_show_root":         true,
}

// Shell is the command interpreter over a tree of Nodes. It parses command
// lines, resolves paths, runs node-local commands and serves completion
// requests. It can be driven interactively, from a script file or from any
// reader.
type Shell struct {
	env     *Env
	root    *Node
	current *Node
	exit    bool

	historyFile string
	saveHistory bool
	in          io.Reader
}

// NewShell creates a shell. When preferencesDir is non-empty it is created
// if absent and used to persist preferences (prefs.bin), command history
// (history.txt) and, unless configured otherwise, the logfile (log.txt).
func NewShell(preferencesDir string) (*Shell, error) {
	env := NewEnv()
	s := &Shell{env: env, in: os.Stdin}

	if preferencesDir != "" {
		if strings.HasPrefix(preferencesDir, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				preferencesDir = filepath.Join(home, preferencesDir[2:])
			}
		}
		if err := os.MkdirAll(preferencesDir, 0o755); err != nil {
			return nil, &IoError{Op: "create preferences directory", Err: err}
		}

		env.Prefs.Filename = filepath.Join(preferencesDir, "prefs.bin")
		s.historyFile = filepath.Join(preferencesDir, "history.txt")
		s.saveHistory = true
		if _, err := os.Stat(s.historyFile); err != nil {
			if f, err := os.Create(s.historyFile); err != nil {
				env.Log.Warning("Cannot create history file %s, "+
					"command history will not be saved.", s.historyFile)
				s.saveHistory = false
			} else {
				f.Close()
			}
		}

		if err := env.Prefs.Load(); err != nil {
			env.Log.Warning("Could not load preferences file %s.",
				env.Prefs.Filename)
		}
		if env.Prefs.Get("logfile") == nil {
			env.Prefs.Set("logfile", filepath.Join(preferencesDir, "log.txt"))
		}
		env.Prefs.Autosave = true
	}

	for key, value := range defaultPrefs {
		if !env.Prefs.Contains(key) {
			env.Prefs.Set(key, value)
		}
	}
	return s, nil
}

// Env returns the shell's shared environment, for building nodes.
func (s *Shell) Env() *Env {
	return s.env
}

// AttachRootNode installs the root of the configuration tree and makes it
// the current node.
func (s *Shell) AttachRootNode(root *Node) {
	s.root = root
	s.current = root
}

// CurrentNode returns the node relative path resolution starts from at the
// prompt.
func (s *Shell) CurrentNode() *Node {
	return s.current
}

// Prompt returns the prompt string: the optional node-supplied prefix, the
// current path (elided to head...tail when longer than the prompt_length
// preference) and "> ".
func (s *Shell) Prompt() string {
	path := s.current.Path()
	length := s.env.Prefs.GetInt("prompt_length", 0)
	if length > 0 && length < len(path) {
		half := (length - 3) / 2
		path = path[:half] + "..." + path[len(path)-half:]
	}
	return s.current.PromptMsg() + path + "> "
}

// RunCmdline parses and executes one command line.
//
// Command syntax is: [PATH] COMMAND [POSITIONAL_PARAMETER]... [PARAMETER=VALUE]...
func (s *Shell) RunCmdline(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	s.env.Log.Debug("running command line %q", line)

	parsed := ParseLine(line)
	if len(parsed.Tokens) == 0 {
		s.env.Log.Debug("no actionable command in %q", line)
		return nil
	}
	return s.execute(parsed.Path, parsed.Command, parsed.PParams, parsed.KParams)
}

// execute resolves the target and runs the command, interpreting the result
// to drive shell state. An iterator wildcard on the path runs the command
// once per child of the target, in the children's intrinsic order.
func (s *Shell) execute(path, command string, pparams []string,
	kparams map[string]string) error {

	path, iterall := SplitWildcard(path)
	if path == "" {
		path = "."
	}
	if command == "" {
		if iterall {
			command = "ls"
		} else {
			command = "cd"
			pparams = []string{"."}
		}
	}

	target, err := s.current.GetNode(path)
	if err != nil {
		return err
	}

	targets := []*Node{target}
	if iterall {
		targets = target.Children()
	}

	for _, t := range targets {
		if iterall {
			s.env.Con.Display("[" + t.Path() + "]")
		}
		result, err := t.ExecuteCommand(command, pparams, kparams)
		if err != nil {
			if iterall {
				s.reportError(err)
				continue
			}
			return err
		}
		if result == nil {
			continue
		}
		if result.Target != nil {
			s.current = result.Target
		}
		if result.Exit {
			s.exit = true
		}
	}
	return nil
}

// reportError logs a recoverable shell error. Unknown failures get a stack
// trace and the loop keeps running.
func (s *Shell) reportError(err error) {
	var (
		badPath     *BadPathError
		badBookmark *BadBookmarkError
		notFound    *CommandNotFoundError
		badUsage    *BadUsageError
		badValue    *BadValueError
		execErr     *ExecutionError
	)
	switch {
	case errors.As(err, &badPath),
		errors.As(err, &badBookmark),
		errors.As(err, &notFound),
		errors.As(err, &badUsage),
		errors.As(err, &badValue),
		errors.As(err, &execErr):
		s.env.Log.Error("%v", err)
	default:
		s.env.Log.Exception(err)
	}
}

// RunScript executes command lines from the script at path, starting from
// the root node. When exitOnError is set the run stops at the first failing
// line.
func (s *Shell) RunScript(path string, exitOnError bool) error {
	f, err := os.Open(path)
	if err != nil {
		return &IoError{Op: "open script", Err: err}
	}
	defer f.Close()
	return s.RunStdin(f, exitOnError)
}

// RunStdin executes command lines from a reader, starting from the root
// node.
func (s *Shell) RunStdin(r io.Reader, exitOnError bool) error {
	s.current = s.root
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := s.RunCmdline(scanner.Text()); err != nil {
			s.reportError(err)
			if exitOnError {
				s.env.Log.Error("Aborting run on error.")
				return err
			}
			s.env.Log.Warning("Keep running after an error.")
		}
		if s.exit {
			break
		}
	}
	return scanner.Err()
}

// RunInteractive starts the interactive loop: restore the last current node
// from the path history, prompt, complete, execute, save history. It returns
// when the exit command runs or input ends.
func (s *Shell) RunInteractive() {
	s.restoreCurrentNode()

	tty := false
	if f, ok := s.in.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd())
	}
	scanner := bufio.NewScanner(s.in)

	for !s.exit {
		var line string
		if tty {
			var result lineResult
			line, result = s.readLine()
			if result == lineAborted {
				s.env.Con.RawWrite("\n")
				continue
			}
			if result == lineEOF {
				s.env.Con.RawWrite("exit\n")
				line = "exit"
			}
		} else {
			s.env.Con.RawWrite(s.Prompt())
			if !scanner.Scan() {
				s.env.Con.RawWrite("exit\n")
				line = "exit"
			} else {
				line = scanner.Text()
			}
		}

		s.runProtected(line)
		s.appendHistory(line)
	}
}

// runProtected runs one line and keeps the loop alive: known error kinds are
// logged, unknown failures and panics get a stack trace, and the prompt
// comes back either way.
func (s *Shell) runProtected(line string) {
	defer func() {
		if r := recover(); r != nil {
			s.env.Log.Exception(fmt.Errorf("panic: %v", r))
		}
	}()
	if err := s.RunCmdline(line); err != nil {
		s.reportError(err)
	}
}

// restoreCurrentNode goes back to the path recorded at the history index, if
// it still resolves.
func (s *Shell) restoreCurrentNode() {
	history := s.env.Prefs.GetStringSlice("path_history")
	index := s.env.Prefs.GetInt("path_history_index", 0)
	if len(history) == 0 || index <= 0 || index >= len(history) {
		return
	}
	if target, err := s.root.GetNode(history[index]); err == nil {
		s.current = target
	}
}

// appendHistory adds one line to the history file. A failing history file
// disables history saving for the rest of the session.
func (s *Shell) appendHistory(line string) {
	if !s.saveHistory || strings.TrimSpace(line) == "" {
		return
	}
	f, err := os.OpenFile(s.historyFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		s.env.Log.Warning("Cannot write to command history file %s.", s.historyFile)
		s.env.Log.Warning("Saving command history has been disabled!")
		s.saveHistory = false
		return
	}
	defer f.Close()
	fmt.Fprintln(f, line)
}
