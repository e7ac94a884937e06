// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker provides a way to listen for OS signals and handle them gracefully.
// By default it listens for syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT and
// os.Interrupt.
//
// It also contains a watchdog function that cancels a context when a second
// signal of the same type is received.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/crosshell/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New creates a new signal channel that receives OS signals that should
// terminate the process.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Watch monitors the signal channel. The first signal of a given type cancels
// the context so in-flight executions can unwind cooperatively; a second
// signal of the same type stops the watch entirely.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Info(ctx, "watchdog", "detail", "received second signal of type, stopping", "signal", sig.String())
			close(sigCh)

			return
		}

		seen[sig] = struct{}{}

		ctxlog.Info(ctx, "watchdog", "detail", "received signal, cancelling executions", "signal", sig.String())
		cancel()
	}
}
