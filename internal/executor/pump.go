// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/matt-FFFFFF/crosshell/internal/ctxlog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	initialScanBuffer = 64 * 1024
	maxScanBuffer     = 4 * 1024 * 1024
)

var (
	// ErrSinkWrite is returned when a line could not be written to a sink.
	ErrSinkWrite = errors.New("failed to write to sink")
	// ErrReadStream is returned when a child output stream could not be read.
	ErrReadStream = errors.New("failed to read output stream")
)

// flusher is implemented by writer sinks that buffer, e.g. bufio.Writer.
type flusher interface {
	Flush() error
}

// pump reads lines from one child output stream and forwards each to the
// sink's writer and queue, in emission order. It stops at end-of-stream or
// at the first line boundary after ctx is cancelled. The queue, when
// present, is marked complete once the pump stops; the writer is flushed on
// end-of-stream.
func pump(ctx context.Context, stream string, r io.Reader, enc encoding.Encoding, sink Sink) error {
	logger := ctxlog.Logger(ctx).With("component", "executor", "stream", stream)

	defer func() {
		if sink.Queue != nil {
			sink.Queue.Close()
		}
	}()

	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialScanBuffer), maxScanBuffer)

	lines := 0

	for scanner.Scan() {
		line := scanner.Text()

		if sink.Writer != nil {
			if _, err := io.WriteString(sink.Writer, line+"\n"); err != nil {
				return errors.Join(ErrSinkWrite, err)
			}
		}

		if sink.Queue != nil {
			sink.Queue.Push(line)
		}

		lines++

		if err := ctx.Err(); err != nil {
			logger.Debug("pump cancelled", "lines", lines)
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return errors.Join(ErrReadStream, err)
	}

	logger.Debug("pump finished", "lines", lines)

	if f, ok := sink.Writer.(flusher); ok {
		if err := f.Flush(); err != nil {
			return errors.Join(ErrSinkWrite, err)
		}
	}

	return nil
}
