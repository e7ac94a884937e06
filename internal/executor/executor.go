// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/crosshell/internal/composer"
	"github.com/matt-FFFFFF/crosshell/internal/ctxlog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"
)

var (
	// ErrEmptyCommand is returned when the command string is empty.
	ErrEmptyCommand = errors.New("command must not be empty")
	// ErrStartProcess is returned when the OS refused to create the process.
	ErrStartProcess = errors.New("could not start process")
	// ErrCreatePipe is returned when an output pipe could not be created.
	ErrCreatePipe = errors.New("failed to create pipe")
	// ErrWaitProcess is returned when waiting on the child failed for a
	// reason other than a non-zero exit code.
	ErrWaitProcess = errors.New("failed to wait for process")
)

// waitDelay bounds how long Wait blocks on stream teardown after the child
// is killed by cancellation.
const waitDelay = 5 * time.Second

// Execute runs a shell command line on the host OS's preferred shell and
// streams its output to the configured sinks. It blocks until the child
// exits or ctx is cancelled and returns the child's exit code verbatim.
//
// A non-zero exit code is not an error. Cancellation surfaces as ctx.Err(),
// never as a service error, and no exit code is produced. Sink write
// failures terminate the child and fail the call.
func Execute(ctx context.Context, command string, opts *Options) (int, error) {
	if command == "" {
		return -1, ErrEmptyCommand
	}

	if opts == nil {
		opts = &Options{}
	}

	logger := ctxlog.Logger(ctx).With("component", "executor")

	shell, err := composer.Resolve(nil, runtime.GOOS, command)
	if err != nil {
		return -1, err
	}

	logger.Debug("shell resolved", "variant", shell.Variant.String(), "path", shell.Path)

	stdinEnc, err := lookupEncoding(opts.StdinEncoding)
	if err != nil {
		return -1, err
	}

	stdoutEnc, err := lookupEncoding(opts.StdoutEncoding)
	if err != nil {
		return -1, err
	}

	stderrEnc, err := lookupEncoding(opts.StderrEncoding)
	if err != nil {
		return -1, err
	}

	// pumpCtx cancels when the parent is cancelled, when either pump fails,
	// or when the record's cancel fires; any of these kills the child via
	// CommandContext.
	procCtx, cancelProc := context.WithCancel(ctx)
	defer cancelProc()

	eg, pumpCtx := errgroup.WithContext(procCtx)

	cmd := exec.CommandContext(pumpCtx, shell.Path, shell.Args...) //nolint:gosec // command is trusted input
	cmd.Dir = opts.Cwd
	cmd.Env = shapeEnv(os.Environ(), opts.RetainEnv, opts.SurrogateEnv)
	cmd.WaitDelay = waitDelay
	hideWindow(cmd)

	if opts.Stdin != nil {
		var stdin io.Reader = opts.Stdin
		if stdinEnc != nil {
			stdin = transform.NewReader(stdin, stdinEnc.NewEncoder())
		}

		cmd.Stdin = stdin
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return -1, errors.Join(ErrCreatePipe, err)
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return -1, errors.Join(ErrCreatePipe, err)
	}

	rec := &record{
		command: command,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
		cancel:  cancelProc,
	}

	token := active.add(rec)
	defer active.remove(token)

	if err := cmd.Start(); err != nil {
		return -1, errors.Join(fmt.Errorf("%w: %s", ErrStartProcess, command), err)
	}

	rec.pid = cmd.Process.Pid
	logger.Debug("process started", "pid", rec.pid)

	eg.Go(func() error {
		return pump(pumpCtx, "stdout", stdoutPipe, stdoutEnc, rec.stdout)
	})

	eg.Go(func() error {
		return pump(pumpCtx, "stderr", stderrPipe, stderrEnc, rec.stderr)
	})

	// Wait must run after both pumps have drained the pipes.
	pumpErr := eg.Wait()
	waitErr := cmd.Wait()

	logger.Debug("process finished", "pid", rec.pid, "pumpErr", pumpErr, "waitErr", waitErr)

	// Parent cancellation wins over everything else.
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	if pumpErr != nil {
		var merr *multierror.Error
		merr = multierror.Append(merr, pumpErr)

		var exitErr *exec.ExitError
		if waitErr != nil && !errors.As(waitErr, &exitErr) {
			merr = multierror.Append(merr, waitErr)
		}

		return -1, merr.ErrorOrNil()
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}

		return -1, errors.Join(ErrWaitProcess, waitErr)
	}

	return cmd.ProcessState.ExitCode(), nil
}
