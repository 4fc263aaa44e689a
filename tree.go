// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"sort"
	"strings"
)

// treeColor returns the color for a tree level, one of three buckets the
// tree view cycles through by depth.
func treeColor(level int) string {
	switch {
	case level%3 == 0:
		return ""
	case (level-1)%3 == 0:
		return "blue"
	default:
		return "magenta"
	}
}

// RenderTree draws the subtree rooted at node as ascii art, one line per
// node, honoring the tree_round_nodes, tree_status_mode and tree_show_root
// preferences. maxDepth limits the number of levels below node; zero or
// negative means unlimited.
func RenderTree(node *Node, maxDepth int) string {
	r := treeRenderer{env: node.env, list: false}
	depth := maxDepth
	if depth <= 0 {
		depth = -1
	}

	var lines []string
	if !node.env.Prefs.GetBool("tree_show_root", true) {
		for _, child := range sortedChildren(node) {
			childLines, _ := r.render(child, []bool{false}, depth)
			lines = append(lines, childLines...)
		}
	} else {
		lines, _ = r.render(node, []bool{false}, depth)
	}
	return strings.Join(lines, "\n")
}

// RenderTreeList returns the plain (uncolored) tree lines and, in parallel,
// the path of the node each line represents. The interactive cd picker works
// off these two sequences.
func RenderTreeList(node *Node) ([]string, []string) {
	r := treeRenderer{env: node.env, list: true}
	return r.render(node, []bool{false}, -1)
}

type treeRenderer struct {
	env  *Env
	list bool
}

func sortedChildren(node *Node) []*Node {
	children := node.Children()
	sort.Slice(children, func(i, j int) bool {
		return children[i].String() < children[j].String()
	})
	return children
}

// render produces the lines and paths for one node and its subtree. margin
// carries one flag per ancestor level, true when that ancestor still has
// siblings below it and needs a runner. depth -1 means unlimited.
func (r treeRenderer) render(node *Node, margin []bool, depth int) ([]string, []string) {
	con := r.env.Con
	prefs := r.env.Prefs

	level := strings.Count(strings.TrimRight(node.Path(), "/"), "/")
	color := treeColor(level)

	rootCall := len(margin) == 1
	name := node.Name()
	if node.IsRoot() {
		name = "/"
	}
	styledName := name
	if !r.list {
		styles := []string{"bold"}
		if rootCall {
			styles = append(styles, "underline")
		}
		styledName = con.Render(name, color, styles...)
	}

	description, health := node.Summary()
	if description == "" {
		switch health {
		case HealthOK:
			description = "OK"
		case HealthError:
			description = "ERROR"
		default:
			description = "..."
		}
	}

	var summary string
	if r.list {
		summary = "[" + description + "]"
	} else {
		summary = con.Render(" [", "", "bold")
		switch health {
		case HealthOK:
			summary += con.Render(description, "green")
		case HealthError:
			summary += con.Render(description, "red", "bold")
		default:
			summary += description
		}
		summary += con.Render("]", "", "bold")
	}

	var runner strings.Builder
	for _, pipe := range margin[:len(margin)-1] {
		if pipe {
			runner.WriteString("| ")
		} else {
			runner.WriteString("  ")
		}
	}
	nodeChar := "+"
	if prefs.GetBool("tree_round_nodes", true) {
		nodeChar = "o"
	}
	runner.WriteString(nodeChar + "-")
	runner.WriteString(" ")
	marginLen := runner.Len()

	padLen := con.Width() - 1 - (len(description) + 3) - marginLen - len(name)
	if padLen < 0 {
		padLen = 0
	}
	pad := strings.Repeat(".", padLen)
	if !r.list {
		pad = con.Render(pad, color)
	}

	line := runner.String() + styledName
	if prefs.GetBool("tree_status_mode", true) {
		if r.list {
			line += " " + strings.Repeat(".", padLen) + summary
		} else {
			line += " " + pad + summary
		}
	}

	lines := []string{line}
	paths := []string{node.Path()}

	if depth == 0 {
		return lines, paths
	}
	childDepth := depth
	if childDepth > 0 {
		childDepth--
	}
	children := sortedChildren(node)
	for i, child := range children {
		childMargin := append(append([]bool{}, margin...), i < len(children)-1)
		childLines, childPaths := r.render(child, childMargin, childDepth)
		lines = append(lines, childLines...)
		paths = append(paths, childPaths...)
	}
	return lines, paths
}
