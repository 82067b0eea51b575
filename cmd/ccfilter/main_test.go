// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build unix

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/incfix/execute/localexec"
)

// testAsCCFilterEnv makes the test binary run as ccfilter.
const testAsCCFilterEnv = "INCFIX_TEST_AS_CCFILTER"

func TestMain(m *testing.M) {
	if os.Getenv(testAsCCFilterEnv) != "" {
		os.Exit(ccfilterMain(context.Background(), os.Args[1:]))
	}
	os.Exit(m.Run())
}

// fakeCompiler writes a compiler script that prints its args, one per
// line, and exits with code.
func fakeCompiler(t *testing.T, name string, code int) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), name)
	script := "#!/bin/sh\nfor a in \"$@\"; do echo \"$a\"; done\n"
	if code != 0 {
		script += "exit " + strconv.Itoa(code) + "\n"
	}
	err := os.WriteFile(fname, []byte(script), 0755)
	if err != nil {
		t.Fatal(err)
	}
	return fname
}

// ccfilter runs the test binary as ccfilter with args and env.
func ccfilter(t *testing.T, args []string, env ...string) (string, string, int) {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(), testAsCCFilterEnv+"=1", "INCFIX_CONFIG=", "PIO_REAL_CC=", "PIO_REAL_CXX=")
	cmd.Env = append(cmd.Env, env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()
	var eerr *exec.ExitError
	switch {
	case errors.As(err, &eerr):
		return stdout.String(), stderr.String(), eerr.ExitCode()
	case err != nil:
		t.Fatalf("run %s: %v", exe, err)
	}
	return stdout.String(), stderr.String(), 0
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestCCFilter(t *testing.T) {
	cxx := fakeCompiler(t, "xtensa-esp32s3-elf-g++", 0)
	flags := []string{"-O2", "-include", "-Wall", "/p/ports/lvgl_port_alignment.h", "-c", "main.cpp"}
	want := []string{"-O2", "-include", "/p/ports/lvgl_port_alignment.h", "-Wall", "-c", "main.cpp"}

	for _, tc := range []struct {
		name string
		args []string
		env  []string
	}{
		{
			name: "launcher",
			args: append([]string{cxx}, flags...),
		},
		{
			name: "launcher_no_exec",
			args: append([]string{cxx}, flags...),
			env:  []string{localexec.NoExecEnv + "=1"},
		},
		{
			name: "env",
			args: flags,
			env:  []string{"PIO_REAL_CXX=" + cxx},
		},
		{
			name: "env_no_exec",
			args: flags,
			env:  []string{"PIO_REAL_CXX=" + cxx, localexec.NoExecEnv + "=1"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, code := ccfilter(t, tc.args, tc.env...)
			if code != 0 {
				t.Fatalf("ccfilter %q: exit=%d stderr=%q; want 0", tc.args, code, stderr)
			}
			if diff := cmp.Diff(want, lines(stdout)); diff != "" {
				t.Errorf("ccfilter %q: compiler args diff -want +got:\n%s", tc.args, diff)
			}
		})
	}
}

func TestCCFilter_CCEnv(t *testing.T) {
	cc := fakeCompiler(t, "cc-real", 0)
	cxx := fakeCompiler(t, "cxx-real", 4)
	args := []string{"-include", "-c", "main.c"}
	stdout, stderr, code := ccfilter(t, args, "PIO_REAL_CC="+cc, "PIO_REAL_CXX="+cxx)
	if code != 0 {
		t.Fatalf("ccfilter %q: exit=%d stderr=%q; want 0", args, code, stderr)
	}
	if diff := cmp.Diff([]string{"-c", "main.c"}, lines(stdout)); diff != "" {
		t.Errorf("ccfilter %q: compiler args diff -want +got:\n%s", args, diff)
	}
}

func TestCCFilter_ExitCode(t *testing.T) {
	cxx := fakeCompiler(t, "fail-g++", 3)
	for _, env := range [][]string{nil, {localexec.NoExecEnv + "=1"}} {
		_, _, code := ccfilter(t, []string{cxx, "-c", "main.cpp"}, env...)
		if code != 3 {
			t.Errorf("ccfilter with %q: exit=%d; want 3", env, code)
		}
	}
}

func TestCCFilter_NoCompiler(t *testing.T) {
	stdout, stderr, code := ccfilter(t, []string{"-O2", "-c", "main.cpp"})
	if code != 1 {
		t.Errorf("ccfilter: exit=%d; want 1", code)
	}
	if stdout != "" {
		t.Errorf("ccfilter: stdout=%q; want empty", stdout)
	}
	if !strings.Contains(stderr, "missing real compiler") {
		t.Errorf("ccfilter: stderr=%q; want missing real compiler", stderr)
	}
}
