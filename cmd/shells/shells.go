// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shells

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matt-FFFFFF/crosshell/internal/composer"
	"github.com/matt-FFFFFF/crosshell/internal/pathfind"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const osFlag = "os"

var headerStyle = lipgloss.NewStyle().Bold(true)

// ShellsCmd lists the shell variants for an OS in priority order, together
// with where each one resolves on this machine.
var ShellsCmd = &cli.Command{
	Name: "shells",
	Description: `List the shell variants considered for an operating system, in
the order they are tried, and where each executable resolves on this machine.
A variant that does not resolve is shown as "not found".`,
	Usage: `crosshell shells --os windows`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     osFlag,
			Usage:    "Target operating system (windows, linux, darwin)",
			Value:    runtime.GOOS,
			OnlyOnce: true,
		},
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		goos := cmd.String(osFlag)

		variants, err := composer.VariantsFor(goos)
		if err != nil {
			return err
		}

		fsys := afero.NewOsFs()
		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}

				return lipgloss.NewStyle()
			}).
			Headers("PRIORITY", "VARIANT", "EXECUTABLE", "RESOLVED PATH")

		for i, v := range variants {
			exe, _ := v.Compose("")

			resolved, err := pathfind.First(fsys, exe)
			if err != nil || resolved == "" {
				resolved = "not found"
			}

			tbl.Row(fmt.Sprintf("%d", i+1), v.String(), exe, resolved)
		}

		fmt.Fprintln(cmd.Writer, strings.TrimSuffix(tbl.Render(), "\n"))

		return nil
	},
}
