// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build unix

package localexec

import (
	"os"

	"golang.org/x/sys/unix"

	"go.chromium.org/infra/build/incfix/execute"
)

const canExec = true

func execve(cmd *execute.Cmd) error {
	return unix.Exec(cmd.Path, cmd.Args, cmd.Environ())
}

func interrupt(p *os.Process) error {
	return p.Signal(unix.SIGINT)
}
