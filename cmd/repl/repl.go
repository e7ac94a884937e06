// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matt-FFFFFF/crosshell/internal/ctxlog"
	"github.com/matt-FFFFFF/crosshell/internal/executor"
	"github.com/peterh/liner"
	"github.com/urfave/cli/v3"
)

const prompt = "crosshell> "

// ReplCmd runs an interactive loop that executes each entered line as a
// shell command on the host's preferred shell.
var ReplCmd = &cli.Command{
	Name: "repl",
	Description: `Start an interactive prompt. Each line is run as a shell
command on this OS's preferred shell and its output streamed back. Type "exit"
or press Ctrl+D to leave.`,
	Usage: `crosshell repl`,
	Action: func(ctx context.Context, cmd *cli.Command) error {
		line := liner.NewLiner()

		defer func() {
			_ = line.Close()
		}()

		line.SetCtrlCAborts(true)

		fmt.Fprintln(cmd.Writer, `Type "exit" or press Ctrl+D to quit.`)

		for {
			input, err := line.Prompt(prompt)
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(cmd.Writer)
				return nil
			}

			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}

			if input == "exit" || input == "quit" {
				return nil
			}

			line.AppendHistory(input)

			code, err := executor.Execute(ctx, input, &executor.Options{
				Stdout: executor.Sink{Writer: os.Stdout},
				Stderr: executor.Sink{Writer: os.Stderr},
			})
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}

				ctxlog.Error(ctx, "command failed", "error", err)

				continue
			}

			if code != 0 {
				fmt.Fprintf(cmd.ErrWriter, "exit code %d\n", code)
			}
		}
	},
}
