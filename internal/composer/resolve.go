// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package composer

import (
	"fmt"

	"github.com/matt-FFFFFF/crosshell/internal/pathfind"
	"github.com/spf13/afero"
)

// ResolvedShell is the concrete spawn spec for a command: the absolute path
// of the shell executable and its full argument vector. It is immutable once
// chosen; the orchestrator never falls back to another variant after this.
type ResolvedShell struct {
	Variant Variant
	Path    string
	Args    []string
}

// Resolve tries the OS's shell variants in priority order and returns the
// first one whose executable can be located, either as a direct file path or
// via a PATH lookup. If no variant resolves it returns an error wrapping
// ErrUnsupportedOS that names the host OS.
func Resolve(fsys afero.Fs, goos, command string) (ResolvedShell, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	variants, err := VariantsFor(goos)
	if err != nil {
		return ResolvedShell{}, err
	}

	for _, v := range variants {
		exe, args := v.Compose(command)

		if info, err := fsys.Stat(exe); err == nil && !info.IsDir() {
			return ResolvedShell{Variant: v, Path: exe, Args: args}, nil
		}

		p, err := pathfind.First(fsys, exe)
		if err != nil || p == "" {
			continue
		}

		return ResolvedShell{Variant: v, Path: p, Args: args}, nil
	}

	return ResolvedShell{}, fmt.Errorf("%w: no shell resolved for %s", ErrUnsupportedOS, goos)
}
