// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import "fmt"

// BadPathError reports a path resolution failure. Path names the offending
// segment or the full path that could not be resolved.
type BadPathError struct {
	Path string
}

func (e *BadPathError) Error() string {
	return fmt.Sprintf("no such path %s", e.Path)
}

// BadBookmarkError reports a reference to an unknown bookmark.
type BadBookmarkError struct {
	Name string
}

func (e *BadBookmarkError) Error() string {
	return fmt.Sprintf("no such bookmark %s", e.Name)
}

// CommandNotFoundError reports a command name that the target node does not
// provide.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("no command named %q", e.Name)
}

// BadUsageError reports an arity or keyword mismatch between the command line
// and the command's declared signature.
type BadUsageError struct {
	Command string
	Reason  string
}

func (e *BadUsageError) Error() string {
	return fmt.Sprintf("wrong parameters for %s (%s), see 'help %s'",
		e.Command, e.Reason, e.Command)
}

// BadValueError reports a value rejected by a ui-type helper. The message is
// the helper's explanation.
type BadValueError struct {
	Reason string
}

func (e *BadValueError) Error() string {
	return e.Reason
}

// ExecutionError is the recoverable domain error a command implementation may
// return. Its message is displayed verbatim to the user.
type ExecutionError struct {
	Msg string
	Err error
}

func (e *ExecutionError) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// IoError reports a failed file operation, such as creating the preferences
// directory or opening a script. A failing history file is not reported
// with it: the shell logs a warning and stops saving history instead.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// Execf builds an ExecutionError from a format string.
func Execf(format string, args ...interface{}) *ExecutionError {
	return &ExecutionError{Msg: fmt.Sprintf(format, args...)}
}
