// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

// Path history lives in the shared preferences (path_history and
// path_history_index) so it survives sessions when a preferences file is
// configured. cd maintains it; < and > walk it.

// historyInit seeds the history with the node's own path on first use.
func historyInit(n *Node) {
	prefs := n.env.Prefs
	if prefs.Get("path_history") == nil {
		prefs.Set("path_history", []string{n.Path()})
		prefs.Set("path_history_index", 0)
	}
}

// historyRecord truncates the history after the current index and appends
// the path of target, unless target is already the entry at the index.
func historyRecord(n *Node, target *Node) {
	prefs := n.env.Prefs
	history := prefs.GetStringSlice("path_history")
	index := prefs.GetInt("path_history_index", 0)
	if index >= 0 && index < len(history) && history[index] == target.Path() {
		return
	}
	if index+1 < len(history) {
		history = history[:index+1]
	}
	history = append(history, target.Path())
	prefs.Set("path_history", history)
	prefs.Set("path_history_index", len(history)-1)
}

// historyBack steps the index backwards to the nearest still-resolvable
// path. At the beginning of history it stays put and informs the user.
func historyBack(n *Node) *Node {
	prefs := n.env.Prefs
	history := prefs.GetStringSlice("path_history")
	index := prefs.GetInt("path_history_index", 0)

	if index == 0 {
		n.env.Log.Info("Reached beginning of path history.")
		return n
	}
	for index > 0 {
		index--
		target, err := n.GetNode(history[index])
		if err != nil {
			continue
		}
		prefs.Set("path_history_index", index)
		n.env.Log.Info("Taking you back to %s.", history[index])
		return target
	}

	// Nothing below resolves anymore; the root always does.
	history[0] = "/"
	prefs.Set("path_history", history)
	prefs.Set("path_history_index", 0)
	n.env.Log.Info("Taking you back to /.")
	return n.Root()
}

// historyForward steps the index forwards to the nearest still-resolvable
// path. At the end of history it stays put and informs the user.
func historyForward(n *Node) *Node {
	prefs := n.env.Prefs
	history := prefs.GetStringSlice("path_history")
	index := prefs.GetInt("path_history_index", 0)

	if index >= len(history)-1 {
		n.env.Log.Info("Reached the end of path history.")
		return n
	}
	for index < len(history)-1 {
		index++
		target, err := n.GetNode(history[index])
		if err != nil {
			continue
		}
		prefs.Set("path_history_index", index)
		n.env.Log.Info("Taking you back to %s.", history[index])
		return target
	}

	// The tail of the history no longer resolves; stay where we are and
	// make the current path the new tail.
	history = append(history, n.Path())
	prefs.Set("path_history", history)
	prefs.Set("path_history_index", len(history)-1)
	return n
}
