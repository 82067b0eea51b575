// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build unix

package localexec

import (
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

func rusage(cmd *exec.Cmd) string {
	if cmd.ProcessState == nil {
		return "n/a"
	}
	if u, ok := cmd.ProcessState.SysUsage().(*syscall.Rusage); ok {
		// 32bit arch may use int32 for Maxrss etc.
		return fmt.Sprintf("maxrss=%d majflt=%d utime=%s stime=%s",
			int64(u.Maxrss),
			int64(u.Majflt),
			time.Duration(u.Utime.Nano()),
			time.Duration(u.Stime.Nano()))
	}
	return "n/a"
}
