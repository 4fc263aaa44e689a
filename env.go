// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

// Env bundles the process-wide shared state: preferences, logger and
// console. One Env is created per shell and injected by reference into every
// node, instead of living in package globals, so sessions are isolated and
// tests stay independent.
type Env struct {
	Prefs *Prefs
	Log   *Log
	Con   *Console
}

// NewEnv wires a fresh preferences store, console and logger together.
func NewEnv() *Env {
	prefs := NewPrefs()
	con := NewConsole(prefs)
	return &Env{
		Prefs: prefs,
		Log:   NewLog(prefs, con),
		Con:   con,
	}
}
