// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matt-FFFFFF/crosshell/internal/lineq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// skipOnWindows guards tests that drive a POSIX shell with POSIX utilities.
func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("test requires a POSIX shell")
	}
}

func TestExecuteEcho(t *testing.T) {
	skipOnWindows(t)

	out := &bytes.Buffer{}

	code, err := Execute(context.Background(), "echo hello", &Options{
		Stdout: Sink{Writer: out},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", out.String())
}

func TestExecuteNonASCIIOutput(t *testing.T) {
	skipOnWindows(t)

	out := &bytes.Buffer{}

	code, err := Execute(context.Background(), "echo 'héllo wörld 世界'", &Options{
		Stdout:         Sink{Writer: out},
		StdoutEncoding: "UTF-8",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, "héllo wörld 世界\n", out.String())
}

func TestExecuteExitCodes(t *testing.T) {
	skipOnWindows(t)

	for _, want := range []int{0, 1, 42, 255} {
		t.Run(fmt.Sprintf("exit %d", want), func(t *testing.T) {
			code, err := Execute(context.Background(), fmt.Sprintf("exit %d", want), nil)
			require.NoError(t, err)
			assert.Equal(t, want, code)
		})
	}
}

func TestExecuteStderrSink(t *testing.T) {
	skipOnWindows(t)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code, err := Execute(context.Background(), "echo out; echo err 1>&2", &Options{
		Stdout: Sink{Writer: stdout},
		Stderr: Sink{Writer: stderr},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestExecuteDiscardsOutputWithoutSinks(t *testing.T) {
	skipOnWindows(t)

	code, err := Execute(context.Background(), "echo nobody is listening", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestExecuteCancellation(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	code, err := Execute(ctx, "sleep 30", nil)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, -1, code)
	assert.Less(t, elapsed, 10*time.Second, "cancellation must end the call in bounded time")
	assert.Equal(t, 0, Active())
}

func TestExecuteQueueSink(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	const k = 20000

	q := lineq.New()

	code, err := Execute(context.Background(), fmt.Sprintf("seq 1 %d", k), &Options{
		Stdout: Sink{Queue: q},
	})
	require.NoError(t, err)
	require.Equal(t, 0, code)

	require.True(t, q.Closed())

	count := 0

	for {
		line, ok := q.TryPop()
		if !ok {
			break
		}

		count++

		if count == 1 {
			assert.Equal(t, "1", line)
		}
	}

	assert.Equal(t, k, count)
}

func TestExecuteWriterAndQueueDuplicate(t *testing.T) {
	skipOnWindows(t)

	out := &bytes.Buffer{}
	q := lineq.New()

	code, err := Execute(context.Background(), "echo both", &Options{
		Stdout: Sink{Writer: out, Queue: q},
	})
	require.NoError(t, err)
	require.Equal(t, 0, code)

	assert.Equal(t, "both\n", out.String())

	line, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, "both", line)
}

func TestExecuteSurrogateEnvOverride(t *testing.T) {
	skipOnWindows(t)

	t.Setenv("CROSSHELL_TEST_VAR", "inherited")

	out := &bytes.Buffer{}

	code, err := Execute(context.Background(), "echo $CROSSHELL_TEST_VAR", &Options{
		Stdout:       Sink{Writer: out},
		SurrogateEnv: map[string]string{"CROSSHELL_TEST_VAR": "override"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, "override\n", out.String())
}

func TestExecuteRetainEnvStripsOthers(t *testing.T) {
	skipOnWindows(t)

	t.Setenv("CROSSHELL_TEST_VAR", "secret")

	out := &bytes.Buffer{}

	code, err := Execute(context.Background(), `echo "[$CROSSHELL_TEST_VAR]"`, &Options{
		Stdout:    Sink{Writer: out},
		RetainEnv: []string{"PATH", "HOME"},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, "[]\n", out.String())
}

func TestExecuteSurrogateEnvUnset(t *testing.T) {
	skipOnWindows(t)

	t.Setenv("CROSSHELL_TEST_VAR", "present")

	out := &bytes.Buffer{}

	code, err := Execute(context.Background(), `echo "[$CROSSHELL_TEST_VAR]"`, &Options{
		Stdout:       Sink{Writer: out},
		SurrogateEnv: map[string]string{"CROSSHELL_TEST_VAR": EnvUnset},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, "[]\n", out.String())
}

func TestExecuteCwd(t *testing.T) {
	skipOnWindows(t)

	dir := t.TempDir()

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	out := &bytes.Buffer{}

	code, err := Execute(context.Background(), "pwd -P", &Options{
		Cwd:    dir,
		Stdout: Sink{Writer: out},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, resolved, strings.TrimSpace(out.String()))
}

func TestExecuteStdin(t *testing.T) {
	skipOnWindows(t)

	out := &bytes.Buffer{}

	code, err := Execute(context.Background(), "cat", &Options{
		Stdin:  strings.NewReader("from stdin\n"),
		Stdout: Sink{Writer: out},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, code)
	assert.Equal(t, "from stdin\n", out.String())
}

func TestExecuteEmptyCommand(t *testing.T) {
	code, err := Execute(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrEmptyCommand)
	assert.Equal(t, -1, code)
}

func TestExecuteUnknownEncoding(t *testing.T) {
	skipOnWindows(t)

	_, err := Execute(context.Background(), "echo hi", &Options{
		StdoutEncoding: "not-a-real-encoding",
	})
	require.ErrorIs(t, err, ErrUnknownEncoding)
}

func TestExecuteStartFailure(t *testing.T) {
	skipOnWindows(t)

	code, err := Execute(context.Background(), "echo hi", &Options{
		Cwd: filepath.Join(t.TempDir(), "does-not-exist"),
	})

	require.ErrorIs(t, err, ErrStartProcess)
	assert.Contains(t, err.Error(), "echo hi")
	assert.Equal(t, -1, code)
	assert.Equal(t, 0, Active())
}

// errWriter fails every write after the first n bytes.
type errWriter struct {
	writes int
}

func (w *errWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > 1 {
		return 0, errors.New("disk full")
	}

	return len(p), nil
}

func TestExecuteSinkFailureKillsChild(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	start := time.Now()
	code, err := Execute(context.Background(), "while true; do echo spam; done", &Options{
		Stdout: Sink{Writer: &errWriter{}},
	})
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrSinkWrite)
	assert.Equal(t, -1, code)
	assert.Less(t, elapsed, 30*time.Second)
	assert.Equal(t, 0, Active())
}

func TestExecuteRegistryEmptiesAfterSuccess(t *testing.T) {
	skipOnWindows(t)

	_, err := Execute(context.Background(), "true", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, Active())
}

func TestExecuteCallerEnvUntouched(t *testing.T) {
	skipOnWindows(t)

	t.Setenv("CROSSHELL_TEST_VAR", "original")

	_, err := Execute(context.Background(), "true", &Options{
		SurrogateEnv: map[string]string{"CROSSHELL_TEST_VAR": "changed"},
	})
	require.NoError(t, err)

	assert.Equal(t, "original", os.Getenv("CROSSHELL_TEST_VAR"))
}
