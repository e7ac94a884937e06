// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build !windows

package executor

import "os/exec"

// hideWindow is a no-op outside Windows.
func hideWindow(_ *exec.Cmd) {}
