// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package configshell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/open-iscsi/configshell-go/internal/markup"
)

// Health is the status flag a node summary reports, shown in the tree view.
type Health int

const (
	HealthUnknown Health = iota
	HealthOK
	HealthError
)

// SummaryFunc produces a node's status text and health flag.
type SummaryFunc func() (string, Health)

// PromptFunc produces an optional prefix for the shell prompt when the node
// is the current one.
type PromptFunc func() string

// CompleteFunc is a per-command completion hook. It receives the parameters
// already bound on the line, the text of the token being completed, and the
// name of the parameter that token occupies ("*" for free parameters). It
// returns candidate strings, all beginning with text.
type CompleteFunc func(params map[string]string, text, param string) []string

// Result tells the shell what to do after a command ran: adopt Target as the
// new current node and/or exit. A nil *Result is a no-op.
type Result struct {
	Target *Node
	Exit   bool
}

// CommandFunc implements one node-local command. It receives the node the
// command was invoked on and the bound arguments.
type CommandFunc func(n *Node, args Args) (*Result, error)

// Signature declares a command's formal parameters: an ordered name list of
// which the first Required are mandatory, default values for optional ones,
// and whether free positional / free keyword parameters are accepted.
type Signature struct {
	Params      []string
	Required    int
	Defaults    map[string]string
	FreePParams bool
	FreeKParams bool
}

// Command is one registered node-local command. The signature is declared
// data, not introspected from the function.
type Command struct {
	Name      string
	Run       CommandFunc
	Signature Signature
	Complete  CompleteFunc
	Doc       markup.Doc
}

// Syntax returns the synthesized syntax line for the command, plus the
// formatted default values if any.
func (c *Command) Syntax() (string, string) {
	sig := c.Signature
	var sb strings.Builder
	sb.WriteString(c.Name)
	for i, param := range sig.Params {
		if i < sig.Required {
			sb.WriteString(fmt.Sprintf(" %s", param))
		} else {
			sb.WriteString(fmt.Sprintf(" [%s]", param))
		}
	}
	if sig.FreePParams {
		sb.WriteString(" [parameter...]")
	}
	if sig.FreeKParams {
		sb.WriteString(" [keyword=value...]")
	}

	var defaults []string
	for _, param := range sig.Params[min(sig.Required, len(sig.Params)):] {
		if value, ok := sig.Defaults[param]; ok && value != "" {
			defaults = append(defaults, fmt.Sprintf("%s=%s", param, value))
		}
	}
	return sb.String(), strings.Join(defaults, " ")
}

// Args carries a command invocation's bound parameters: named formals (with
// declared defaults filled in), free positionals in user order, and free
// keywords.
type Args struct {
	vals    map[string]string
	Extra   []string
	ExtraKw map[string]string
}

// Get returns the value bound to the named formal parameter.
func (a Args) Get(name string) (string, bool) {
	value, ok := a.vals[name]
	return value, ok
}

// Value returns the value bound to the named formal, or "" when absent.
func (a Args) Value(name string) string {
	return a.vals[name]
}

// Bound returns a copy of the named bindings.
func (a Args) Bound() map[string]string {
	bound := make(map[string]string, len(a.vals))
	for name, value := range a.vals {
		bound[name] = value
	}
	return bound
}

// bindArgs validates pparams and kparams against the command's signature.
// Positionals bind to formals by index; keywords by name; leftovers go to
// the free pools when declared. Violations come back as BadUsageError.
func bindArgs(cmd *Command, pparams []string, kparams map[string]string) (Args, error) {
	sig := cmd.Signature
	args := Args{vals: make(map[string]string), ExtraKw: make(map[string]string)}

	bad := func(format string, a ...interface{}) (Args, error) {
		return Args{}, &BadUsageError{Command: cmd.Name, Reason: fmt.Sprintf(format, a...)}
	}

	for i, value := range pparams {
		if i < len(sig.Params) {
			name := sig.Params[i]
			if _, dup := kparams[name]; dup {
				return bad("got multiple values for %s", name)
			}
			args.vals[name] = value
		} else if sig.FreePParams {
			args.Extra = append(args.Extra, value)
		} else {
			return bad("takes at most %d positional parameters", len(sig.Params))
		}
	}

	for keyword, value := range kparams {
		if isFormal(sig, keyword) {
			if _, dup := args.vals[keyword]; dup {
				return bad("got multiple values for %s", keyword)
			}
			args.vals[keyword] = value
		} else if sig.FreeKParams {
			args.ExtraKw[keyword] = value
		} else {
			return bad("unexpected keyword %s", keyword)
		}
	}

	for i := 0; i < sig.Required && i < len(sig.Params); i++ {
		if _, ok := args.vals[sig.Params[i]]; !ok {
			return bad("missing required parameter %s", sig.Params[i])
		}
	}

	for name, value := range sig.Defaults {
		if _, ok := args.vals[name]; !ok {
			args.vals[name] = value
		}
	}
	return args, nil
}

func isFormal(sig Signature, name string) bool {
	for _, param := range sig.Params {
		if param == name {
			return true
		}
	}
	return false
}

// GroupParam describes one parameter of a configuration group.
type GroupParam struct {
	Type        UIType
	Description string
}

// Group is a named collection of configuration parameters with a getter and
// a setter backend. Values passed to the setter have already been parsed by
// the parameter's ui-type.
type Group struct {
	params map[string]GroupParam
	get    func(param string) interface{}
	set    func(param string, value interface{})
}

// Param returns the descriptor for a group parameter.
func (g *Group) Param(name string) (GroupParam, bool) {
	p, ok := g.params[name]
	return p, ok
}

// ParamNames returns the group's parameter names, sorted.
func (g *Group) ParamNames() []string {
	names := make([]string, 0, len(g.params))
	for name := range g.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddParam declares a parameter in the group.
func (g *Group) AddParam(name string, t UIType, description string) {
	g.params[name] = GroupParam{Type: t, Description: description}
}

// Get reads a parameter's stored value.
func (g *Group) Get(param string) interface{} {
	return g.get(param)
}

// Set stores a parsed parameter value.
func (g *Group) Set(param string, value interface{}) {
	g.set(param, value)
}

// Node is one position in the configuration tree. Nodes are created
// detached; AddChild attaches them. Every node carries the built-in shell
// commands and the global configuration group; host applications register
// their own commands, groups, summary and prompt callbacks on top.
type Node struct {
	name     string
	parent   *Node
	children []*Node
	env      *Env

	commands map[string]*Command
	groups   map[string]*Group

	summary   SummaryFunc
	promptMsg PromptFunc
}

// NewNode creates a detached node with the built-in commands and the global
// configuration group registered.
func NewNode(name string, env *Env) *Node {
	n := &Node{
		name:     name,
		env:      env,
		commands: make(map[string]*Command),
		groups:   make(map[string]*Group),
	}
	n.addGlobalGroup()
	registerBuiltins(n)
	if env.Prefs.Get("bookmarks") == nil {
		env.Prefs.Set("bookmarks", map[string]string{})
	}
	return n
}

func (n *Node) String() string {
	if n.IsRoot() {
		return "/"
	}
	return n.name
}

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// SetName renames the node. Callers must keep sibling names unique.
func (n *Node) SetName(name string) { n.name = name }

// Env returns the shared shell environment.
func (n *Node) Env() *Env { return n.env }

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Root walks up to the tree root.
func (n *Node) Root() *Node {
	node := n
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	return append([]*Node{}, n.children...)
}

// Path returns the absolute path of the node: "/" followed by the
// slash-joined ancestor names. The root's path is exactly "/".
func (n *Node) Path() string {
	if n.IsRoot() {
		return "/"
	}
	if n.parent.IsRoot() {
		return "/" + n.name
	}
	return n.parent.Path() + "/" + n.name
}

// SetSummary installs the status callback shown in the tree view.
func (n *Node) SetSummary(f SummaryFunc) { n.summary = f }

// Summary returns the node's status text and health flag.
func (n *Node) Summary() (string, Health) {
	if n.summary == nil {
		return "", HealthUnknown
	}
	return n.summary()
}

// SetPromptMsg installs the optional prompt prefix callback.
func (n *Node) SetPromptMsg(f PromptFunc) { n.promptMsg = f }

// PromptMsg returns the node's prompt prefix, or "".
func (n *Node) PromptMsg() string {
	if n.promptMsg == nil {
		return ""
	}
	return n.promptMsg()
}

// AddChild attaches child to the node. It rejects self-insertion, children
// that already have a parent, duplicate sibling names and insertions that
// would create a cycle.
func (n *Node) AddChild(child *Node) error {
	if child == n {
		return fmt.Errorf("a node cannot be its own child")
	}
	if !child.IsRoot() {
		return fmt.Errorf("child node already has a parent")
	}
	for ancestor := n; ancestor != nil; ancestor = ancestor.parent {
		if ancestor == child {
			return fmt.Errorf("refusing to add cyclic parent link")
		}
	}
	for _, sibling := range n.children {
		if sibling.name == child.name {
			return fmt.Errorf("node already has a child named %s", child.name)
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// DelChild detaches child from the node.
func (n *Node) DelChild(child *Node) error {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return nil
		}
	}
	return fmt.Errorf("cannot delete: no such child")
}

// Child returns the child with the given name.
func (n *Node) Child(name string) (*Node, error) {
	for _, child := range n.children {
		if child.name == name {
			return child, nil
		}
	}
	return nil, &BadPathError{Path: strings.TrimSuffix(n.Path(), "/") + "/" + name}
}

// SplitWildcard strips a trailing iterator wildcard from a path, reporting
// whether one was present.
func SplitWildcard(path string) (string, bool) {
	if strings.HasSuffix(path, "*") {
		return strings.TrimRight(path, "*"), true
	}
	return path, false
}

// GetNode resolves a path relative to the node. Bookmarks (@name) are
// resolved through the preferences; "." and ".." move as in a filesystem,
// with the root being its own parent. A trailing iterator wildcard is
// stripped; resolution targets the node the prefix names.
func (n *Node) GetNode(path string) (*Node, error) {
	if path == "" {
		path = "."
	}

	if strings.HasPrefix(path, "@") {
		name := strings.TrimSpace(strings.TrimLeft(path, "@"))
		bookmarked, ok := n.env.Prefs.Bookmarks()[name]
		if !ok {
			return nil, &BadBookmarkError{Name: name}
		}
		path = bookmarked
	}

	path, _ = SplitWildcard(path)
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	node := n
	if strings.HasPrefix(path, "/") {
		node = n.Root()
		path = strings.TrimPrefix(path, "/")
	}
	if path == "" {
		return node, nil
	}

	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case ".", "":
		case "..":
			if node.parent != nil {
				node = node.parent
			}
		default:
			child, err := node.Child(segment)
			if err != nil {
				return nil, err
			}
			node = child
		}
	}
	return node, nil
}

// RegisterCommand adds or replaces a node-local command.
func (n *Node) RegisterCommand(cmd *Command) {
	n.commands[cmd.Name] = cmd
}

// Commands returns the sorted names of the node's commands.
func (n *Node) Commands() []string {
	names := make([]string, 0, len(n.commands))
	for name := range n.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Command returns a registered command by name.
func (n *Node) Command(name string) (*Command, error) {
	cmd, ok := n.commands[name]
	if !ok {
		return nil, &CommandNotFoundError{Name: name}
	}
	return cmd, nil
}

// CompletionFor returns a command's completion hook, or nil.
func (n *Node) CompletionFor(command string) CompleteFunc {
	if cmd, ok := n.commands[command]; ok {
		return cmd.Complete
	}
	return nil
}

// AddGroup declares a configuration group backed by the given getter and
// setter.
func (n *Node) AddGroup(name string,
	get func(param string) interface{},
	set func(param string, value interface{})) *Group {

	group := &Group{params: make(map[string]GroupParam), get: get, set: set}
	n.groups[name] = group
	return group
}

// Group returns a configuration group by name.
func (n *Node) Group(name string) (*Group, bool) {
	group, ok := n.groups[name]
	return group, ok
}

// Groups returns the sorted names of the node's configuration groups.
func (n *Node) Groups() []string {
	names := make([]string, 0, len(n.groups))
	for name := range n.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecuteCommand looks up and runs a node-local command with the given
// positional and keyword parameters.
func (n *Node) ExecuteCommand(command string, pparams []string,
	kparams map[string]string) (*Result, error) {

	n.env.Log.Debug("executing %s with pparams %v and kparams %v",
		command, pparams, kparams)

	cmd, err := n.Command(command)
	if err != nil {
		return nil, err
	}
	args, err := bindArgs(cmd, pparams, kparams)
	if err != nil {
		return nil, err
	}
	return cmd.Run(n, args)
}

// addGlobalGroup binds the global configuration group to the shared
// preferences, on every node.
func (n *Node) addGlobalGroup() {
	prefs := n.env.Prefs
	group := n.AddGroup("global",
		func(param string) interface{} { return prefs.Get(param) },
		func(param string, value interface{}) { prefs.Set(param, value) })

	group.AddParam("tree_round_nodes", TypeBool,
		"Tree node display style.")
	group.AddParam("tree_status_mode", TypeBool,
		"Whether or not to display status in tree.")
	group.AddParam("tree_max_depth", TypeNumber,
		"Maximum depth of displayed node tree.")
	group.AddParam("tree_show_root", TypeBool,
		"Whether or not to display tree root.")
	group.AddParam("color_mode", TypeBool,
		"Console color display mode.")
	group.AddParam("loglevel_console", TypeLogLevel,
		"Log level for messages going to the console.")
	group.AddParam("loglevel_file", TypeLogLevel,
		"Log level for messages going to the log file.")
	group.AddParam("logfile", TypeString,
		"Logfile to use.")
	group.AddParam("color_default", TypeColorDefault,
		"Default text display color.")
	group.AddParam("color_path", TypeColor,
		"Color to use for path completions.")
	group.AddParam("color_command", TypeColor,
		"Color to use for command completions.")
	group.AddParam("color_parameter", TypeColor,
		"Color to use for parameter completions.")
	group.AddParam("color_keyword", TypeColor,
		"Color to use for keyword completions.")
	group.AddParam("completions_in_columns", TypeBool,
		"If true, completions are displayed in columns, else in lines.")
	group.AddParam("prompt_length", TypeNumber,
		"Maximum length of the shell prompt path, 0 means infinite.")
}
