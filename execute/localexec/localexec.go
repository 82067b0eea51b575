// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package localexec implements local command execution.
package localexec

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/incfix/execute"
)

// NoExecEnv is the environment variable to disable process image
// replacement. When it is set to non-empty, Exec runs the command as
// a child process.
const NoExecEnv = "INCFIX_NO_EXEC"

// waitDelay is how long to wait for the child to exit after it was
// interrupted by context cancellation.
const waitDelay = 5 * time.Second

// Exec replaces the current process with cmd.
// It doesn't return on success.
// If the platform can't replace the process image, or NoExecEnv is set,
// it runs cmd as a child process with the standard streams and returns
// the result of Run. The caller should exit with the child's exit code.
func Exec(ctx context.Context, cmd *execute.Cmd) error {
	if len(cmd.Args) == 0 {
		return errors.New("no arguments in the command")
	}
	if canExec && os.Getenv(NoExecEnv) == "" {
		log.Debugf("exec %s", cmd)
		err := execve(cmd)
		// execve returns only on failure.
		log.Warnf("failed to exec %s: %v. run as child process", cmd.Path, err)
	}
	return Run(ctx, cmd)
}

// Run runs cmd as a child process, and waits for it to finish.
// It returns execute.ExitError if the child exits with non-zero code.
// When ctx is canceled, the child is interrupted, and killed if it
// doesn't exit in a few seconds.
func Run(ctx context.Context, cmd *execute.Cmd) error {
	if len(cmd.Args) == 0 {
		return errors.New("no arguments in the command")
	}
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args[1:]...)
	// keep Args[0] as given, as process replacement does.
	c.Args = cmd.Args
	c.Env = cmd.Environ()
	c.Stdin = cmd.StdinReader()
	c.Stdout = cmd.StdoutWriter()
	c.Stderr = cmd.StderrWriter()
	c.Cancel = func() error {
		return interrupt(c.Process)
	}
	c.WaitDelay = waitDelay
	s := time.Now()
	err := c.Run()
	code := exitCode(err)
	log.Debugf("run %s exit=%d duration=%s rusage=%s err=%v", cmd, code, time.Since(s), rusage(c), err)
	if err != nil && c.ProcessState == nil {
		return fmt.Errorf("failed to run %s: %w", cmd.Path, err)
	}
	if code != 0 {
		return execute.ExitError{ExitCode: code}
	}
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var eerr *exec.ExitError
	if !errors.As(err, &eerr) {
		return 1
	}
	if w, ok := eerr.ProcessState.Sys().(syscall.WaitStatus); ok {
		if w.Signaled() {
			// same as shell.
			return 128 + int(w.Signal())
		}
		return w.ExitStatus()
	}
	if code := eerr.ExitCode(); code > 0 {
		return code
	}
	return 1
}
