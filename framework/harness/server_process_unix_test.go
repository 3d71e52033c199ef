//go:build !windows

package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/linehash/hash-contract-tests/framework"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript creates an executable shell script that records the pid of a background sleep
// in pidFile before running the rest of body.
func writeScript(t *testing.T, body string) (path, pidFile string) {
	dir := t.TempDir()
	path = filepath.Join(dir, "server.sh")
	pidFile = filepath.Join(dir, "child.pid")
	script := fmt.Sprintf("#!/bin/sh\nsleep 20 &\necho $! > %q\n%s\n", pidFile, body)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, pidFile
}

func readPid(t *testing.T, pidFile string) int {
	var data []byte
	require.Eventually(t, func() bool {
		var err error
		data, err = os.ReadFile(pidFile)
		return err == nil && strings.HasSuffix(string(data), "\n")
	}, time.Second*2, time.Millisecond*20)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	return pid
}

// processGone is true once pid no longer exists or is only waiting to be reaped.
func processGone(pid int) bool {
	if err := syscall.Kill(pid, 0); err != nil {
		return true
	}
	stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	return err == nil && strings.Contains(string(stat), ") Z ")
}

func scriptParams(path string) ServerParams {
	return ServerParams{
		Executable:      path,
		Port:            1,
		StartupChecks:   2,
		StartupInterval: time.Millisecond * 250,
		ShutdownTimeout: time.Millisecond * 300,
	}
}

func TestStopKillsServerAndItsChildrenWhenInterruptIsIgnored(t *testing.T) {
	path, pidFile := writeScript(t, "trap '' INT\necho started\nwait")
	var logger framework.CapturingLogger
	s, err := StartServer(context.Background(), scriptParams(path), &logger)
	require.NoError(t, err)
	child := readPid(t, pidFile)

	started := time.Now()
	err = s.Stop()

	var shutdownErr *ShutdownError
	require.True(t, errors.As(err, &shutdownErr), "got %T: %v", err, err)
	assert.True(t, shutdownErr.Forced)
	assert.Equal(t, StateExited, s.State())
	assert.Less(t, time.Since(started), time.Second*2)
	assert.Eventually(t, func() bool { return processGone(child) }, time.Second*2, time.Millisecond*20)
	assert.Eventually(t, func() bool {
		for _, m := range logger.Output() {
			if m.Message == "[server stdout] started" {
				return true
			}
		}
		return false
	}, time.Second*2, time.Millisecond*20)
}

func TestStartupDetectsExitWhileChildHoldsOutput(t *testing.T) {
	path, pidFile := writeScript(t, "exit 3")

	started := time.Now()
	s, err := StartServer(context.Background(), scriptParams(path), nil)

	assert.Nil(t, s)
	var startupErr *StartupError
	require.True(t, errors.As(err, &startupErr), "got %T: %v", err, err)
	assert.Equal(t, 3, startupErr.ExitCode.IntValue())
	assert.Less(t, time.Since(started), time.Second*2)
	child := readPid(t, pidFile)
	assert.Eventually(t, func() bool { return processGone(child) }, time.Second*2, time.Millisecond*20)
}

func TestStopCleansUpChildrenOfServerThatExitsOnInterrupt(t *testing.T) {
	path, pidFile := writeScript(t, "trap 'exit 0' INT\nwait")
	s, err := StartServer(context.Background(), scriptParams(path), nil)
	require.NoError(t, err)
	child := readPid(t, pidFile)

	require.NoError(t, s.Stop())
	assert.Equal(t, 0, s.ExitCode().IntValue())
	assert.Eventually(t, func() bool { return processGone(child) }, time.Second*2, time.Millisecond*20)
}
