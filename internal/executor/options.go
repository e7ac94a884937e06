// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/matt-FFFFFF/crosshell/internal/lineq"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// ErrUnknownEncoding is returned when an encoding name is not in the IANA index.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// EnvUnset is the surrogate value that removes a variable from the child
// environment instead of setting it.
const EnvUnset = "\x00unset\x00"

// Sink is a destination for completed lines of one output stream. Writer and
// Queue are independent; both may be set (lines are duplicated) or absent
// (output is discarded).
type Sink struct {
	Writer io.Writer
	Queue  *lineq.Queue
}

// Options configures a single Execute call. The zero value runs the command
// in the current directory with inherited environment, platform-default
// encodings and discarded output.
type Options struct {
	// Cwd is the working directory for the child. Empty means the process's
	// current directory.
	Cwd string

	// Stdin is the child's standard input. Nil leaves stdin connected to the
	// null device.
	Stdin io.Reader

	// StdinEncoding, StdoutEncoding and StderrEncoding are IANA names of the
	// text encodings for the three standard streams. Empty means the
	// platform default encoding, passed through unchanged.
	StdinEncoding  string
	StdoutEncoding string
	StderrEncoding string

	// RetainEnv is an allow-list of environment variable names. When non-nil,
	// every inherited variable not named here is stripped before spawn.
	RetainEnv []string

	// SurrogateEnv is applied after retention filtering and always wins. A
	// value of EnvUnset removes the variable from the child environment.
	SurrogateEnv map[string]string

	// Stdout and Stderr are the sinks for the two output streams.
	Stdout Sink
	Stderr Sink
}

// lookupEncoding resolves an IANA encoding name. The empty name selects the
// platform default and resolves to nil, meaning bytes pass through unchanged.
func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return nil, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}

	return enc, nil
}

// shapeEnv applies retention filtering and surrogate overrides to the
// inherited environment and returns the child environment block. The
// caller's own environment is never mutated.
func shapeEnv(inherited []string, retain []string, surrogate map[string]string) []string {
	shaped := make([]string, 0, len(inherited)+len(surrogate))
	seen := make(map[string]int, len(inherited))

	for _, kv := range inherited {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		if retain != nil && !slices.Contains(retain, name) {
			continue
		}

		// last-write-wins on duplicate inherited names
		if i, dup := seen[name]; dup {
			shaped[i] = kv
			continue
		}

		seen[name] = len(shaped)
		shaped = append(shaped, kv)
	}

	// sorted application keeps the block deterministic
	for _, name := range slices.Sorted(maps.Keys(surrogate)) {
		value := surrogate[name]

		i, dup := seen[name]

		switch {
		case value == EnvUnset && dup:
			shaped = slices.Delete(shaped, i, i+1)
			delete(seen, name)

			for n, j := range seen {
				if j > i {
					seen[n] = j - 1
				}
			}
		case value == EnvUnset:
			// nothing to remove
		case dup:
			shaped[i] = name + "=" + value
		default:
			seen[name] = len(shaped)
			shaped = append(shaped, name+"="+value)
		}
	}

	return shaped
}
