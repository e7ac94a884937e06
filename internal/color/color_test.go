// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorizeDisabled(t *testing.T) {
	orig := enabled
	enabled = false

	defer func() { enabled = orig }()

	assert.Equal(t, "hello", Colorize("hello", FgRed))
}

func TestColorizeEnabled(t *testing.T) {
	orig := enabled
	enabled = true

	defer func() { enabled = orig }()

	assert.Equal(t, "\033[31mhello\033[0m", Colorize("hello", FgRed))
	assert.Equal(t, "\033[1;31mhello\033[0m", Colorize("hello", Bold, FgRed))
}
