// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package lineq provides an unbounded line queue with completion semantics,
// used as a streaming sink for child process output.
package lineq
