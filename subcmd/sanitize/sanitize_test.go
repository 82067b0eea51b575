// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package sanitize

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/incfix/hookconfig"
)

func TestRun(t *testing.T) {
	for _, tc := range []struct {
		name       string
		c          run
		args       []string
		wantStdout string
		wantStderr string
	}{
		{
			name:       "report",
			c:          run{report: true},
			args:       []string{"-O2", "-include", "-Wall", "p/lvgl_port_alignment.h", "lvgl_port_alignment.h"},
			wantStdout: "-O2\n-include\np/lvgl_port_alignment.h\n-Wall\n",
			wantStderr: "moved=1 dropped_includes=0 dropped_headers=1\n",
		},
		{
			name:       "report_unchanged",
			c:          run{report: true},
			args:       []string{"-O2", "-include", "lvgl_port_alignment.h"},
			wantStdout: "-O2\n-include\nlvgl_port_alignment.h\n",
		},
		{
			name:       "cmdline",
			c:          run{cmdline: "-O2 -include"},
			wantStdout: "-O2\n",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := tc.c.run(hookconfig.Default(), tc.args, &stdout, &stderr)
			if err != nil {
				t.Fatalf("run(%q)=%v; want nil error", tc.args, err)
			}
			if diff := cmp.Diff(tc.wantStdout, stdout.String()); diff != "" {
				t.Errorf("run(%q) stdout diff -want +got:\n%s", tc.args, diff)
			}
			if diff := cmp.Diff(tc.wantStderr, stderr.String()); diff != "" {
				t.Errorf("run(%q) stderr diff -want +got:\n%s", tc.args, diff)
			}
		})
	}
}

func TestRun_CmdlineAndArgs(t *testing.T) {
	c := run{cmdline: "-O2"}
	var stdout, stderr bytes.Buffer
	err := c.run(hookconfig.Default(), []string{"-g"}, &stdout, &stderr)
	if err == nil {
		t.Errorf("run with -cmdline and args=nil; want error")
	}
}
