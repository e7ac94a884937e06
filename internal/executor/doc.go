// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package executor spawns an OS shell to run a command line and multiplexes
// the child's output streams to writer and queue sinks, with environment
// shaping and cooperative cancellation.
package executor
