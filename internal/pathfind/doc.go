// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pathfind locates executable files on PATH-like directory lists.
package pathfind
