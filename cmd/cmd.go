// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/crosshell"
	"github.com/matt-FFFFFF/crosshell/cmd/repl"
	"github.com/matt-FFFFFF/crosshell/cmd/run"
	"github.com/matt-FFFFFF/crosshell/cmd/shells"
	"github.com/matt-FFFFFF/crosshell/cmd/which"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		which.WhichCmd,
		shells.ShellsCmd,
		repl.ReplCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "crosshell",
	Version:   crosshell.Version,
	Description: `Crosshell runs an arbitrary shell command line on any supported
operating system, hiding per-OS shell discovery and invocation quirks behind a
single streaming execution contract. Output is captured line by line without
unbounded memory growth and executions can be cancelled cooperatively.`,
	Usage:     `crosshell run "echo hello | wc -l"`,
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
