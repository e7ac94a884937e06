// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pathfind

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// ErrEmptyName is returned when the executable name is empty.
var ErrEmptyName = errors.New("executable name must not be empty")

const goosWindows = "windows"

// Which returns a lazy sequence of absolute paths where an executable file
// with the given name exists. Directories listed in the PATH environment
// variable are searched first, then extraDirs in the order given. When no
// extraDirs are supplied the process working directory is searched after PATH.
//
// The sequence is re-evaluated on each range, so callers observe filesystem
// and PATH changes between iterations. An empty sequence is not an error.
func Which(fsys afero.Fs, name string, extraDirs ...string) (iter.Seq[string], error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	return func(yield func(string) bool) {
		for _, dir := range searchDirs(extraDirs) {
			candidate := filepath.Join(dir, name)

			info, err := fsys.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}

			if !executable(info) {
				continue
			}

			if !yield(candidate) {
				return
			}
		}
	}, nil
}

// First returns the first match from Which, or the empty string if the
// executable cannot be located.
func First(fsys afero.Fs, name string, extraDirs ...string) (string, error) {
	seq, err := Which(fsys, name, extraDirs...)
	if err != nil {
		return "", err
	}

	for p := range seq {
		return p, nil
	}

	return "", nil
}

// searchDirs returns the PATH entries followed by the extra directories.
// The working directory is the default extra directory.
func searchDirs(extraDirs []string) []string {
	dirs := strings.Split(os.Getenv("PATH"), string(os.PathListSeparator))

	if len(extraDirs) == 0 {
		if cwd, err := os.Getwd(); err == nil {
			return append(dirs, cwd)
		}

		return dirs
	}

	return append(dirs, extraDirs...)
}

// executable reports whether the file may be executed. Windows has no
// execute bit, so any regular file qualifies there.
func executable(info fs.FileInfo) bool {
	if runtime.GOOS == goosWindows {
		return true
	}

	return info.Mode()&0111 != 0
}
