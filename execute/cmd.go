// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package execute runs commands.
package execute

import (
	"fmt"
	"io"
	"os"

	"go.chromium.org/infra/build/incfix/toolsupport/shutil"
)

// Cmd is a command to run in place of the current process.
type Cmd struct {
	// Path is the resolved path of the executable.
	Path string

	// Args holds command line arguments, including the command name
	// as Args[0].
	Args []string

	// Env specifies the environment of the process.
	// If nil, the current environment is used.
	Env []string

	// Stdin, Stdout and Stderr are used by the spawned process when the
	// process image can not be replaced.
	// If nil, the current process's standard streams are used.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String returns the command line of the cmd.
func (c *Cmd) String() string {
	return shutil.Join(c.Args)
}

// Environ returns Env, or the current environment if Env is nil.
func (c *Cmd) Environ() []string {
	if c.Env != nil {
		return c.Env
	}
	return os.Environ()
}

// StdinReader returns Stdin, or os.Stdin if Stdin is nil.
func (c *Cmd) StdinReader() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

// StdoutWriter returns Stdout, or os.Stdout if Stdout is nil.
func (c *Cmd) StdoutWriter() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// StderrWriter returns Stderr, or os.Stderr if Stderr is nil.
func (c *Cmd) StderrWriter() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

// ExitError is an error of cmd exit.
type ExitError struct {
	ExitCode int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit=%d", e.ExitCode)
}
