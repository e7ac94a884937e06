// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package composer maps a raw command string to a concrete shell executable
// and argument vector, per operating system family.
package composer
