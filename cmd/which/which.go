// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package which

import (
	"context"
	"errors"
	"fmt"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/crosshell/internal/pathfind"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	nameArg  = "name"
	jsonFlag = "json"
	allFlag  = "all"
	dirFlag  = "dir"
)

var (
	// ErrNotFound is returned when no executable match exists on the search path.
	ErrNotFound = errors.New("executable not found")
	// ErrMarshalOutput is returned when the JSON output cannot be produced.
	ErrMarshalOutput = errors.New("failed to marshal output")
)

// WhichCmd locates an executable on the search path.
var WhichCmd = &cli.Command{
	Name: "which",
	Description: `Locate an executable by searching the directories of the PATH
environment variable, plus any extra directories given with --dir. Candidates
must be regular files with an executable permission bit set.`,
	Usage: `crosshell which sh`,
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: nameArg,
		},
	},
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:     jsonFlag,
			Aliases:  []string{"j"},
			Usage:    "Emit the matches as JSON",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     allFlag,
			Aliases:  []string{"a"},
			Usage:    "Print every match instead of the first",
			OnlyOnce: true,
		},
		&cli.StringSliceFlag{
			Name:    dirFlag,
			Aliases: []string{"d"},
			Usage:   "Extra directory to search after PATH, may be repeated",
		},
	},
	Action: func(_ context.Context, cmd *cli.Command) error {
		name := cmd.StringArg(nameArg)

		seq, err := pathfind.Which(afero.NewOsFs(), name, cmd.StringSlice(dirFlag)...)
		if err != nil {
			return err
		}

		matches := make([]string, 0, 1)

		for p := range seq {
			matches = append(matches, p)

			if !cmd.Bool(allFlag) {
				break
			}
		}

		if len(matches) == 0 {
			return cli.Exit(fmt.Sprintf("%s: %s", ErrNotFound, name), 1)
		}

		if cmd.Bool(jsonFlag) {
			return writeJSON(cmd, name, matches)
		}

		for _, p := range matches {
			fmt.Fprintln(cmd.Writer, p)
		}

		return nil
	},
}

func writeJSON(cmd *cli.Command, name string, matches []string) error {
	paths := make([]any, len(matches))
	for i, p := range matches {
		paths[i] = p
	}

	formatter := colorjson.NewFormatter()
	formatter.Indent = 2

	out, err := formatter.Marshal(map[string]any{
		"name":    name,
		"matches": paths,
	})
	if err != nil {
		return errors.Join(ErrMarshalOutput, err)
	}

	fmt.Fprintln(cmd.Writer, string(out))

	return nil
}
