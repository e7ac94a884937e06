// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-based logger built on log/slog.
// The log level is read from an environment variable derived from the
// executable name, e.g. CROSSHELL_LOG_LEVEL, and may be one of
// "DEBUG", "INFO", "WARN" or "ERROR". Any other value defaults to "WARN".
package ctxlog
