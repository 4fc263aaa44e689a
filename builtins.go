// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/open-iscsi/configshell-go/internal/markup"
)

var helpIntro = markup.Doc{Blocks: []markup.Block{
	markup.H("GENERALITIES"),
	markup.P(markup.T("This is an interactive shell in which you can create,"+
		" delete and configure configuration objects.")),
	markup.P(markup.T("The available commands depend on the current path in the"+
		" objects tree. The prompt that starts each command line indicates your"+
		" current position, or you can run the"), markup.C("pwd"),
		markup.T("command to that effect. Navigating the tree is done using the"),
		markup.C("cd"), markup.T("command. Please try"), markup.C("help cd"),
		markup.T("for navigation tips.")),
	markup.H("COMMAND SYNTAX"),
	markup.P(markup.T("Commands are built using the following syntax:")),
	markup.Lit("  [PATH] COMMAND_NAME [OPTIONS]"),
	markup.P(markup.T("The"), markup.I("PATH"), markup.T("indicates the object"+
		" to run the command on. If omitted, the command will be run from your"+
		" working path. The"), markup.I("OPTIONS"), markup.T("depend on the"+
		" command. Please use"), markup.C("help COMMAND"),
		markup.T("to get more information.")),
}}

// registerBuiltins installs the common shell commands every node carries.
func registerBuiltins(n *Node) {
	n.RegisterCommand(&Command{
		Name: "pwd",
		Run:  runPwd,
		Doc: markup.Doc{Blocks: []markup.Block{
			markup.P(markup.T("Displays the current working path.")),
		}},
	})
	n.RegisterCommand(&Command{
		Name:      "cd",
		Signature: Signature{Params: []string{"path"}},
		Run:       runCd,
		Complete:  completeCd(n),
		Doc: markup.Doc{Blocks: []markup.Block{
			markup.P(markup.T("Change current work path to"), markup.I("path"),
				markup.T(". The path is constructed like a unix path, with"),
				markup.C("/"), markup.T("as separator character,"), markup.C("."),
				markup.T("for the current node and"), markup.C(".."),
				markup.T("for the parent node.")),
			markup.P(markup.T("You can also navigate the path history with"),
				markup.C("<"), markup.T("and"), markup.C(">"), markup.T(":"),
				markup.C("cd <"), markup.T("takes you back one step,"),
				markup.C("cd >"), markup.T("one step forward.")),
			markup.P(markup.T("Run"), markup.C("cd"), markup.T("without a path"+
				" to pick the target interactively from the tree.")),
		}},
	})
	n.RegisterCommand(&Command{
		Name:      "ls",
		Signature: Signature{Params: []string{"path", "depth"}},
		Run:       runLs,
		Complete:  completeLs(n),
		Doc: markup.Doc{Blocks: []markup.Block{
			markup.P(markup.T("Display either the nodes tree relative to"),
				markup.I("path"), markup.T("or to the current node.")),
			markup.P(markup.T("The"), markup.I("depth"), markup.T("parameter"+
				" limits the maximum depth of the tree to display. If set to 0,"+
				" the complete tree is displayed (the default).")),
		}},
	})
	n.RegisterCommand(&Command{
		Name:      "help",
		Signature: Signature{Params: []string{"topic"}},
		Run:       runHelp,
		Complete:  completeHelp(n),
		Doc: markup.Doc{Blocks: []markup.Block{
			markup.P(markup.T("Displays the manual page for a topic, or lists"+
				" available topics.")),
		}},
	})
	n.RegisterCommand(&Command{
		Name:      "set",
		Signature: Signature{Params: []string{"group"}, FreeKParams: true},
		Run:       runSet,
		Complete:  completeSet(n),
		Doc: markup.Doc{Blocks: []markup.Block{
			markup.P(markup.T("Sets one or more configuration parameters in the"+
				" given group. The"), markup.B("global"), markup.T("group"+
				" contains all global CLI preferences. Other groups are specific"+
				" to the current path.")),
			markup.P(markup.T("Run with no parameter nor group to list all"+
				" available groups, or with just a group name to list all"+
				" available parameters within that group.")),
			markup.P(markup.T("Example:"),
				markup.C("set global color_mode=true loglevel_console=info")),
		}},
	})
	n.RegisterCommand(&Command{
		Name:      "get",
		Signature: Signature{Params: []string{"group"}, FreePParams: true},
		Run:       runGet,
		Complete:  completeGet(n),
		Doc: markup.Doc{Blocks: []markup.Block{
			markup.P(markup.T("Gets the value of one or more configuration"+
				" parameters in the given group.")),
			markup.P(markup.T("Run with no parameter nor group to list all"+
				" available groups, or with just a group name to list all"+
				" available parameters within that group.")),
			markup.P(markup.T("Example:"),
				markup.C("get global color_mode loglevel_console")),
		}},
	})
	n.RegisterCommand(&Command{
		Name:      "bookmarks",
		Signature: Signature{Params: []string{"action", "bookmark"}, Required: 1},
		Run:       runBookmarks,
		Complete:  completeBookmarks(n),
		Doc: markup.Doc{Blocks: []markup.Block{
			markup.P(markup.T("Manage your bookmarks. The"), markup.I("action"),
				markup.T("is one of"), markup.C("add"), markup.T(","),
				markup.C("del"), markup.T(","), markup.C("go"), markup.T("and"),
				markup.C("show"), markup.T(".")),
			markup.P(markup.T("You can use bookmarks anywhere you would use a"+
				" normal path: for instance"), markup.C("cd @mybookmark"),
				markup.T("or"), markup.C("ls @mybookmark"), markup.T(".")),
		}},
	})
	n.RegisterCommand(&Command{
		Name: "exit",
		Run:  runExit,
		Doc: markup.Doc{Blocks: []markup.Block{
			markup.P(markup.T("Exits the command line interface.")),
		}},
	})
}

func runPwd(n *Node, args Args) (*Result, error) {
	n.env.Con.Display(n.Path())
	return nil, nil
}

func runExit(n *Node, args Args) (*Result, error) {
	return &Result{Exit: true}, nil
}

func runCd(n *Node, args Args) (*Result, error) {
	historyInit(n)

	path, supplied := args.Get("path")
	switch path {
	case "<":
		return &Result{Target: historyBack(n)}, nil
	case ">":
		return &Result{Target: historyForward(n)}, nil
	}

	if !supplied {
		// Bare cd: select the target from the rendered tree.
		lines, paths := RenderTreeList(n.Root())
		start := 0
		for i, p := range paths {
			if p == n.Path() {
				start = i
				break
			}
		}
		selected, ok := pickLine(lines, start)
		if !ok {
			return nil, nil
		}
		path = paths[selected]
	}
	return cdTo(n, path)
}

// cdTo resolves path, records it in the history and makes it the new current
// node.
func cdTo(n *Node, path string) (*Result, error) {
	n.env.Log.Debug("changing current node to %q", path)
	historyInit(n)
	target, err := n.GetNode(path)
	if err != nil {
		return nil, err
	}
	historyRecord(n, target)
	return &Result{Target: target}, nil
}

func runLs(n *Node, args Args) (*Result, error) {
	target, err := n.GetNode(args.Value("path"))
	if err != nil {
		return nil, err
	}

	depth := n.env.Prefs.GetInt("tree_max_depth", 0)
	if text, ok := args.Get("depth"); ok {
		value, err := TypeNumber.Parse(text)
		if err != nil {
			return nil, &BadValueError{Reason: "the tree depth must be a number"}
		}
		depth = value.(int)
	}
	n.env.Con.Display(RenderTree(target, depth))
	return nil, nil
}

func runHelp(n *Node, args Args) (*Result, error) {
	con := n.env.Con

	topic, ok := args.Get("topic")
	if !ok {
		doc := markup.Doc{Blocks: append([]markup.Block{}, helpIntro.Blocks...)}
		doc.Blocks = append(doc.Blocks,
			markup.H("AVAILABLE COMMANDS"),
			markup.P(markup.T("The following commands are available in the"+
				" work path:")))
		for _, name := range n.Commands() {
			cmd, _ := n.Command(name)
			syntax, _ := cmd.Syntax()
			doc.Blocks = append(doc.Blocks, markup.Item(markup.C(syntax)))
		}
		con.DisplayDoc(doc)
		return nil, nil
	}

	cmd, err := n.Command(topic)
	if err != nil {
		return nil, Execf("cannot find help topic %s", topic)
	}
	syntax, defaults := cmd.Syntax()
	doc := markup.Doc{Blocks: []markup.Block{
		markup.H("SYNTAX"),
		markup.Lit("  " + syntax),
	}}
	if defaults != "" {
		doc.Blocks = append(doc.Blocks,
			markup.H("DEFAULT VALUES"),
			markup.Lit("  "+defaults))
	}
	doc.Blocks = append(doc.Blocks, markup.H("DESCRIPTION"))
	doc.Blocks = append(doc.Blocks, cmd.Doc.Blocks...)
	con.DisplayDoc(doc)
	return nil, nil
}

// displayGroups lists the node's configuration groups.
func displayGroups(n *Node) {
	n.env.Con.DisplayDoc(markup.Doc{Blocks: []markup.Block{
		markup.H("AVAILABLE CONFIGURATION GROUPS"),
		markup.P(markup.T(strings.Join(n.Groups(), " "))),
	}})
}

// displayGroupParams lists a group's parameters, with the parameter syntax
// when withSyntax is set and the current value otherwise.
func displayGroupParams(n *Node, name string, group *Group, withSyntax bool) {
	doc := markup.Doc{Blocks: []markup.Block{
		markup.H(strings.ToUpper(name) + " PARAMETERS"),
	}}
	for _, param := range group.ParamNames() {
		gp, _ := group.Param(param)
		var title string
		if withSyntax {
			title = param + "=" + gp.Type.Describe()
		} else {
			title = param + "=" + gp.Type.Format(group.Get(param))
		}
		doc.Blocks = append(doc.Blocks,
			markup.P(markup.B(title)),
			markup.P(markup.T(gp.Description)))
	}
	n.env.Con.DisplayDoc(doc)
}

func runSet(n *Node, args Args) (*Result, error) {
	group, ok := args.Get("group")
	if !ok {
		displayGroups(n)
		return nil, nil
	}
	g, exists := n.Group(group)
	if !exists {
		return nil, Execf("unknown configuration group: %s", group)
	}
	if len(args.ExtraKw) == 0 {
		displayGroupParams(n, group, g, true)
		return nil, nil
	}

	for _, param := range sortedKeys(args.ExtraKw) {
		text := args.ExtraKw[param]
		gp, ok := g.Param(param)
		if !ok {
			n.env.Log.Error("There is no parameter named '%s' in group '%s'.",
				param, group)
			continue
		}
		value, err := gp.Type.Parse(text)
		if err != nil {
			n.env.Log.Error("Not setting %s! %v", param, err)
			continue
		}
		g.Set(param, value)
		n.env.Con.Display(fmt.Sprintf("Parameter %s has been set to '%s'.",
			param, gp.Type.Format(g.Get(param))))
	}
	return nil, nil
}

func runGet(n *Node, args Args) (*Result, error) {
	group, ok := args.Get("group")
	if !ok {
		displayGroups(n)
		return nil, nil
	}
	g, exists := n.Group(group)
	if !exists {
		return nil, Execf("unknown configuration group: %s", group)
	}
	if len(args.Extra) == 0 {
		displayGroupParams(n, group, g, false)
		return nil, nil
	}

	for _, param := range args.Extra {
		gp, ok := g.Param(param)
		if !ok {
			n.env.Log.Error("There is no parameter named '%s' in group '%s'.",
				param, group)
			continue
		}
		n.env.Con.Display(fmt.Sprintf("%s=%s",
			param, gp.Type.Format(g.Get(param))))
	}
	return nil, nil
}

func runBookmarks(n *Node, args Args) (*Result, error) {
	prefs := n.env.Prefs
	action := args.Value("action")
	bookmark, hasBookmark := args.Get("bookmark")
	bookmarks := prefs.Bookmarks()

	switch {
	case action == "add" && hasBookmark:
		if _, exists := bookmarks[bookmark]; exists {
			return nil, Execf("bookmark %s already exists", bookmark)
		}
		prefs.SetBookmark(bookmark, n.Path())
		if err := prefs.Save(); err != nil {
			n.env.Log.Warning("Cannot save bookmarks: %v.", err)
		}
		n.env.Log.Info("Bookmarked %s as %s.", n.Path(), bookmark)
	case action == "del" && hasBookmark:
		if _, exists := bookmarks[bookmark]; !exists {
			return nil, &BadBookmarkError{Name: bookmark}
		}
		prefs.DeleteBookmark(bookmark)
		if err := prefs.Save(); err != nil {
			n.env.Log.Warning("Cannot save bookmarks: %v.", err)
		}
		n.env.Log.Info("Deleted bookmark %s.", bookmark)
	case action == "go" && hasBookmark:
		path, exists := bookmarks[bookmark]
		if !exists {
			return nil, &BadBookmarkError{Name: bookmark}
		}
		return cdTo(n, path)
	case action == "show":
		doc := markup.Doc{Blocks: []markup.Block{markup.H("BOOKMARKS")}}
		if len(bookmarks) == 0 {
			doc.Blocks = append(doc.Blocks,
				markup.P(markup.T("No bookmarks yet.")))
		} else {
			for _, name := range sortedKeys(bookmarks) {
				doc.Blocks = append(doc.Blocks,
					markup.Item(markup.B(name), markup.T(" "+bookmarks[name])))
			}
		}
		n.env.Con.DisplayDoc(doc)
	default:
		return nil, Execf("syntax error, see 'help bookmarks'")
	}
	return nil, nil
}

// completePath offers child paths below the current text plus matching
// bookmarks; this is the shared path-parameter helper for ls and cd.
func completePath(n *Node, text string) []string {
	basedir := ""
	partial := text
	if i := strings.LastIndex(text, "/"); i >= 0 {
		basedir = text[:i+1]
		partial = text[i+1:]
	}
	target, err := n.GetNode(basedir)
	if err != nil {
		return nil
	}

	var completions []string
	for _, child := range target.Children() {
		if strings.HasPrefix(child.Name(), partial) {
			completions = append(completions, basedir+child.Name()+"/")
		}
	}
	if len(completions) == 1 {
		if node, err := n.GetNode(completions[0]); err == nil &&
			len(node.Children()) == 0 {
			completions[0] = strings.TrimRight(completions[0], "/") + " "
		}
	}

	for _, name := range sortedKeys(n.env.Prefs.Bookmarks()) {
		if strings.HasPrefix("@"+name, text) {
			completions = append(completions, "@"+name)
		}
	}
	return completions
}

func completeLs(n *Node) CompleteFunc {
	return func(params map[string]string, text, current string) []string {
		switch current {
		case "path":
			return completePath(n, text)
		case "depth":
			if text != "" {
				if _, err := strconv.Atoi(strings.TrimSpace(text)); err != nil {
					return nil
				}
			}
			var completions []string
			for digit := 0; digit < 10; digit++ {
				completions = append(completions, text+strconv.Itoa(digit))
			}
			return completions
		}
		return nil
	}
}

func completeCd(n *Node) CompleteFunc {
	return func(params map[string]string, text, current string) []string {
		if current != "path" {
			return nil
		}
		completions := completePath(n, text)
		for _, nav := range []string{"<", ">"} {
			if strings.HasPrefix(nav, text) {
				completions = append(completions, nav)
			}
		}
		return completions
	}
}

func completeHelp(n *Node) CompleteFunc {
	return func(params map[string]string, text, current string) []string {
		if current != "topic" {
			return nil
		}
		var completions []string
		for _, topic := range n.Commands() {
			if strings.HasPrefix(topic, text) {
				completions = append(completions, topic)
			}
		}
		if len(completions) == 1 {
			completions[0] += " "
		}
		return completions
	}
}

func completeSet(n *Node) CompleteFunc {
	return func(params map[string]string, text, current string) []string {
		var completions []string
		if current == "group" {
			for _, group := range n.Groups() {
				if strings.HasPrefix(group, text) {
					completions = append(completions, group)
				}
			}
		} else if group, ok := params["group"]; ok {
			if g, exists := n.Group(group); exists {
				if gp, isParam := g.Param(current); isParam {
					for _, item := range gp.Type.Enum() {
						if strings.HasPrefix(item, text) {
							completions = append(completions, item)
						}
					}
				} else {
					for _, param := range g.ParamNames() {
						if _, bound := params[param]; bound {
							continue
						}
						if strings.HasPrefix(param, text) {
							completions = append(completions, param+"=")
						}
					}
				}
			}
		}
		if len(completions) == 1 && !strings.HasSuffix(completions[0], "=") {
			completions[0] += " "
		}
		return completions
	}
}

func completeGet(n *Node) CompleteFunc {
	return func(params map[string]string, text, current string) []string {
		var completions []string
		if current == "group" {
			for _, group := range n.Groups() {
				if strings.HasPrefix(group, text) {
					completions = append(completions, group)
				}
			}
		} else if group, ok := params["group"]; ok {
			if g, exists := n.Group(group); exists {
				for _, param := range g.ParamNames() {
					if _, bound := params[param]; bound {
						continue
					}
					if strings.HasPrefix(param, text) {
						completions = append(completions, param)
					}
				}
			}
		}
		if len(completions) == 1 {
			completions[0] += " "
		}
		return completions
	}
}

func completeBookmarks(n *Node) CompleteFunc {
	return func(params map[string]string, text, current string) []string {
		var completions []string
		switch current {
		case "action":
			for _, action := range []string{"add", "del", "go", "show"} {
				if strings.HasPrefix(action, text) {
					completions = append(completions, action)
				}
			}
		case "bookmark":
			if action, ok := params["action"]; ok &&
				action != "show" && action != "add" {
				for _, name := range sortedKeys(n.env.Prefs.Bookmarks()) {
					if strings.HasPrefix(name, text) {
						completions = append(completions, name)
					}
				}
			}
		}
		if len(completions) == 1 {
			completions[0] += " "
		}
		return completions
	}
}
