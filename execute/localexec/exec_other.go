// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !unix

package localexec

import (
	"fmt"
	"os"
	"runtime"

	"go.chromium.org/infra/build/incfix/execute"
)

// no execve. Run is used instead.
const canExec = false

func execve(cmd *execute.Cmd) error {
	return fmt.Errorf("exec is not supported on %s", runtime.GOOS)
}

func interrupt(p *os.Process) error {
	// os.Interrupt is not implemented on windows.
	return p.Kill()
}
