// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command configshell is a demo driver for the configshell framework. It
// builds a configuration tree, either a small built-in sample or one loaded
// from a JSON document, and serves it as an interactive shell.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize/english"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	configshell "github.com/open-iscsi/configshell-go"
	"github.com/open-iscsi/configshell-go/internal/version"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	cmd := &cli.Command{
		Name:    "configshell",
		Usage:   "interactive configuration shell demo",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefs-dir",
				Usage: "directory for preferences, history and logfile",
			},
			&cli.StringFlag{
				Name:  "json",
				Usage: "JSON document to load the configuration tree from",
			},
			&cli.StringFlag{
				Name:  "script",
				Usage: "script file to execute instead of going interactive",
			},
			&cli.StringFlag{
				Name:    "command",
				Aliases: []string{"c"},
				Usage:   "single command line to execute",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func run(ctx context.Context, cmd *cli.Command) error {
	shell, err := configshell.NewShell(cmd.String("prefs-dir"))
	if err != nil {
		return err
	}

	root := configshell.NewNode("root", shell.Env())
	if doc := cmd.String("json"); doc != "" {
		data, err := os.ReadFile(doc)
		if err != nil {
			return err
		}
		if !gjson.ValidBytes(data) {
			return fmt.Errorf("%s: not a valid JSON document", doc)
		}
		if err := loadTree(root, gjson.ParseBytes(data), shell.Env()); err != nil {
			return err
		}
	} else {
		if err := sampleTree(root, shell.Env()); err != nil {
			return err
		}
	}
	shell.AttachRootNode(root)

	switch {
	case cmd.String("script") != "":
		return shell.RunScript(cmd.String("script"), true)
	case cmd.String("command") != "":
		return shell.RunCmdline(cmd.String("command"))
	default:
		shell.RunInteractive()
		return nil
	}
}

// loadTree turns a JSON object into a subtree: nested objects become child
// nodes, scalar members become parameters of an "attributes" configuration
// group on the containing node.
func loadTree(node *configshell.Node, value gjson.Result, env *configshell.Env) error {
	attrs := make(map[string]interface{})
	group := node.AddGroup("attributes",
		func(param string) interface{} { return attrs[param] },
		func(param string, v interface{}) { attrs[param] = v })

	children := 0
	var walkErr error
	value.ForEach(func(key, member gjson.Result) bool {
		if member.IsObject() {
			child := configshell.NewNode(key.String(), env)
			if err := node.AddChild(child); err != nil {
				walkErr = err
				return false
			}
			if err := loadTree(child, member, env); err != nil {
				walkErr = err
				return false
			}
			children++
			return true
		}
		group.AddParam(key.String(), configshell.TypeString,
			"Loaded from the JSON document.")
		attrs[key.String()] = member.String()
		return true
	})
	if walkErr != nil {
		return walkErr
	}

	node.SetSummary(func() (string, configshell.Health) {
		return fmt.Sprintf("%s, %s",
			english.Plural(len(attrs), "attribute", ""),
			english.Plural(children, "child node", "child nodes")), configshell.HealthOK
	})
	return nil
}

// sampleTree builds the default demo tree.
func sampleTree(root *configshell.Node, env *configshell.Env) error {
	for _, name := range []string{"storage", "network"} {
		child := configshell.NewNode(name, env)
		if err := root.AddChild(child); err != nil {
			return err
		}
		child.SetSummary(func() (string, configshell.Health) {
			return "OK", configshell.HealthOK
		})
		for _, sub := range []string{"alpha", "beta"} {
			grandchild := configshell.NewNode(sub, env)
			if err := child.AddChild(grandchild); err != nil {
				return err
			}
		}
	}
	return nil
}
