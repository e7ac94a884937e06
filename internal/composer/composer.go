// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package composer

import (
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

const (
	// GOOSWindows is the string constant for Windows OS from the runtime package.
	GOOSWindows = "windows"
	// GOOSLinux is the string constant for Linux OS from the runtime package.
	GOOSLinux = "linux"
	// GOOSDarwin is the string constant for macOS from the runtime package.
	GOOSDarwin = "darwin"

	// exitCodeSuffix forces PowerShell-family shells to surface the exit code
	// of the last statement instead of swallowing it.
	exitCodeSuffix = "; exit $LASTEXITCODE"
)

// ErrUnsupportedOS is returned when the host OS has no known shell variant.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Variant identifies a concrete shell that can interpret a command string.
type Variant int

const (
	// PowerShell is Windows PowerShell (powershell.exe).
	PowerShell Variant = iota
	// PwshCore is cross-platform PowerShell (pwsh.exe).
	PwshCore
	// CmdExe is the Windows command interpreter.
	CmdExe
	// PosixShell is the POSIX shell (sh).
	PosixShell
	// Zsh is the Z shell used as the macOS default.
	Zsh
)

// String implements the Stringer interface for Variant.
func (v Variant) String() string {
	switch v {
	case PowerShell:
		return "powershell"
	case PwshCore:
		return "pwsh"
	case CmdExe:
		return "cmd"
	case PosixShell:
		return "sh"
	case Zsh:
		return "zsh"
	default:
		return "unknown"
	}
}

// VariantsFor returns the shell variants for an OS family in priority order.
// It returns ErrUnsupportedOS for any OS without a known shell.
func VariantsFor(goos string) ([]Variant, error) {
	switch goos {
	case GOOSWindows:
		return []Variant{PowerShell, CmdExe, PwshCore}, nil
	case GOOSLinux:
		return []Variant{PosixShell}, nil
	case GOOSDarwin:
		return []Variant{Zsh}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
	}
}

// Compose returns the executable name and argument vector that make the
// variant's shell run the given command string. The command is never parsed,
// quoted or validated here; it is interpreted by the shell itself.
func (v Variant) Compose(command string) (string, []string) {
	switch v {
	case PosixShell:
		return "sh", []string{"-c", command}
	case Zsh:
		return "zsh", []string{"-l", "-c", command}
	case CmdExe:
		return "cmd.exe", []string{"/U", "/C", command}
	case PwshCore:
		return "pwsh.exe", powershellArgs(command)
	default:
		return "powershell.exe", powershellArgs(command)
	}
}

// powershellArgs builds the fixed PowerShell flag sequence with the command
// passed as an encoded payload. Encoding sidesteps quoting and escaping
// hazards in the command text.
func powershellArgs(command string) []string {
	return []string{
		"-NoLogo",
		"-Mta",
		"-NoProfile",
		"-NonInteractive",
		"-WindowStyle", "Hidden",
		"-EncodedCommand", EncodePayload(command),
	}
}

// EncodePayload appends the exit-code suffix to the command and encodes the
// result as base64 over UTF-16LE bytes, the form -EncodedCommand expects.
func EncodePayload(command string) string {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

	// the encoder only fails on invalid UTF-8 in the command text
	utf16le, err := enc.Bytes([]byte(command + exitCodeSuffix))
	if err != nil {
		utf16le = []byte(command + exitCodeSuffix)
	}

	return base64.StdEncoding.EncodeToString(utf16le)
}

// DecodePayload reverses EncodePayload. It is used by tests and diagnostic
// tooling to inspect the command a PowerShell variant will run.
func DecodePayload(payload string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decoding base64 payload: %w", err)
	}

	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

	utf8Bytes, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16LE payload: %w", err)
	}

	return string(utf8Bytes), nil
}
