// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/crosshell/internal/ctxlog"
	"github.com/matt-FFFFFF/crosshell/internal/executor"
	"github.com/urfave/cli/v3"
)

const (
	commandArg    = "command"
	cwdFlag       = "cwd"
	envFlag       = "env"
	retainFlag    = "retain"
	unsetFlag     = "unset"
	optionsFlag   = "options"
	timeoutFlag   = "timeout"
	stdinFlag     = "stdin"
	stdoutEncFlag = "stdout-encoding"
	stderrEncFlag = "stderr-encoding"
	stdinEncFlag  = "stdin-encoding"
)

var (
	// ErrReadOptionsFile is returned when the options file cannot be read.
	ErrReadOptionsFile = errors.New("failed to read options file")
	// ErrParseOptionsFile is returned when the options file cannot be parsed.
	ErrParseOptionsFile = errors.New("failed to parse options file")
	// ErrInvalidEnvFlag is returned when an --env value is not KEY=VALUE.
	ErrInvalidEnvFlag = errors.New("environment overrides must be KEY=VALUE")
)

// fileOptions is the YAML schema for the --options file. Flags given on the
// command line take precedence over values from the file.
type fileOptions struct {
	Cwd      string            `yaml:"cwd"`
	Env      map[string]string `yaml:"env"`
	Retain   []string          `yaml:"retain"`
	Unset    []string          `yaml:"unset"`
	Encoding struct {
		Stdin  string `yaml:"stdin"`
		Stdout string `yaml:"stdout"`
		Stderr string `yaml:"stderr"`
	} `yaml:"encoding"`
}

// RunCmd executes a shell command line and streams its output.
var RunCmd = &cli.Command{
	Name: "run",
	Description: `Run a shell command line on this OS's preferred shell.
The command string is passed to the shell verbatim and may contain pipes,
redirects and environment expansions. Output is streamed to stdout/stderr and
the child's exit code becomes the exit code of this process.`,
	Usage: `crosshell run "echo hello | wc -l"`,
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: commandArg,
		},
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     cwdFlag,
			Aliases:  []string{"C"},
			Usage:    "Working directory for the command",
			OnlyOnce: true,
		},
		&cli.StringSliceFlag{
			Name:    envFlag,
			Aliases: []string{"e"},
			Usage:   "Environment override as KEY=VALUE, may be repeated",
		},
		&cli.StringSliceFlag{
			Name:    retainFlag,
			Aliases: []string{"r"},
			Usage: "Retain only the named environment variable, may be repeated. " +
				"When given, all variables not named are stripped from the child environment.",
		},
		&cli.StringSliceFlag{
			Name:    unsetFlag,
			Aliases: []string{"u"},
			Usage:   "Remove the named environment variable from the child environment, may be repeated",
		},
		&cli.StringFlag{
			Name:      optionsFlag,
			Aliases:   []string{"o"},
			Usage:     "YAML file with execution options (cwd, env, retain, unset, encoding)",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.DurationFlag{
			Name:     timeoutFlag,
			Aliases:  []string{"t"},
			Usage:    "Cancel the execution after this duration",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:     stdinFlag,
			Aliases:  []string{"i"},
			Usage:    "Connect this process's stdin to the command",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     stdoutEncFlag,
			Usage:    "IANA name of the child's stdout text encoding",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     stderrEncFlag,
			Usage:    "IANA name of the child's stderr text encoding",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     stdinEncFlag,
			Usage:    "IANA name of the child's stdin text encoding",
			OnlyOnce: true,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}

		if timeout := cmd.Duration(timeoutFlag); timeout > 0 {
			var cancel context.CancelFunc

			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		command := cmd.StringArg(commandArg)

		ctxlog.Debug(ctx, "running command", "command", command)

		code, err := executor.Execute(ctx, command, opts)
		if err != nil {
			return err
		}

		if code != 0 {
			return cli.Exit("", code)
		}

		return nil
	},
}

// buildOptions merges the options file, if any, with command-line flags.
// Flags win over file values.
func buildOptions(cmd *cli.Command) (*executor.Options, error) {
	opts := &executor.Options{
		Stdout: executor.Sink{Writer: cmd.Writer},
		Stderr: executor.Sink{Writer: cmd.ErrWriter},
	}

	if file := cmd.String(optionsFlag); file != "" {
		data, err := os.ReadFile(file) //nolint:gosec // user-supplied path by design
		if err != nil {
			return nil, errors.Join(ErrReadOptionsFile, err)
		}

		var fo fileOptions
		if err := yaml.Unmarshal(data, &fo); err != nil {
			return nil, errors.Join(ErrParseOptionsFile, err)
		}

		applyFileOptions(opts, &fo)
	}

	if cwd := cmd.String(cwdFlag); cwd != "" {
		opts.Cwd = cwd
	}

	if retain := cmd.StringSlice(retainFlag); len(retain) > 0 {
		opts.RetainEnv = retain
	}

	for _, kv := range cmd.StringSlice(envFlag) {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidEnvFlag, kv)
		}

		if opts.SurrogateEnv == nil {
			opts.SurrogateEnv = make(map[string]string)
		}

		opts.SurrogateEnv[name] = value
	}

	for _, name := range cmd.StringSlice(unsetFlag) {
		if opts.SurrogateEnv == nil {
			opts.SurrogateEnv = make(map[string]string)
		}

		opts.SurrogateEnv[name] = executor.EnvUnset
	}

	if enc := cmd.String(stdoutEncFlag); enc != "" {
		opts.StdoutEncoding = enc
	}

	if enc := cmd.String(stderrEncFlag); enc != "" {
		opts.StderrEncoding = enc
	}

	if enc := cmd.String(stdinEncFlag); enc != "" {
		opts.StdinEncoding = enc
	}

	if cmd.Bool(stdinFlag) {
		opts.Stdin = os.Stdin
	}

	return opts, nil
}

func applyFileOptions(opts *executor.Options, fo *fileOptions) {
	opts.Cwd = fo.Cwd
	opts.StdinEncoding = fo.Encoding.Stdin
	opts.StdoutEncoding = fo.Encoding.Stdout
	opts.StderrEncoding = fo.Encoding.Stderr

	if fo.Retain != nil {
		opts.RetainEnv = fo.Retain
	}

	if len(fo.Env) > 0 || len(fo.Unset) > 0 {
		opts.SurrogateEnv = make(map[string]string, len(fo.Env)+len(fo.Unset))

		for name, value := range fo.Env {
			opts.SurrogateEnv[name] = value
		}

		for _, name := range fo.Unset {
			opts.SurrogateEnv[name] = executor.EnvUnset
		}
	}
}
