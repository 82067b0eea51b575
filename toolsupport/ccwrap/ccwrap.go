// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ccwrap resolves the real compiler for a compiler wrapper.
//
// The wrapper is used in two ways.
//
// As a compiler launcher (e.g. CMAKE_<LANG>_COMPILER_LAUNCHER), the real
// compiler is given as the first argument:
//
//	ccfilter /path/to/xtensa-esp32s3-elf-gcc -c main.c ...
//
// As the compiler itself (e.g. SCons CC/CXX), the real compiler is taken
// from the environment:
//
//	PIO_REAL_CC=xtensa-esp32s3-elf-gcc ccfilter -c main.c ...
package ccwrap

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"go.chromium.org/infra/build/incfix/execute"
	"go.chromium.org/infra/build/incfix/toolsupport/gccutil"
)

const (
	// CCEnv is the environment variable of the real C compiler.
	CCEnv = "PIO_REAL_CC"
	// CXXEnv is the environment variable of the real C++ compiler.
	CXXEnv = "PIO_REAL_CXX"
)

// ErrNoCompiler is returned when the real compiler can't be determined.
var ErrNoCompiler = errors.New("missing real compiler")

// Mode is how the wrapper was invoked.
type Mode int

const (
	// Launcher mode: the real compiler is argv[1].
	Launcher Mode = iota
	// Env mode: the real compiler is taken from the environment.
	Env
)

func (m Mode) String() string {
	switch m {
	case Launcher:
		return "launcher"
	case Env:
		return "env"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Options configures Resolve.
type Options struct {
	// Getenv looks up environment variables.
	Getenv func(string) string

	// LookPath resolves a command name to a path.
	// exec.LookPath is used if nil.
	LookPath func(string) (string, error)

	// CCEnv and CXXEnv are environment variable names of the real
	// compilers. Defaults to the package constants if empty.
	CCEnv, CXXEnv string
}

func (o Options) ccEnv() string {
	if o.CCEnv == "" {
		return CCEnv
	}
	return o.CCEnv
}

func (o Options) cxxEnv() string {
	if o.CXXEnv == "" {
		return CXXEnv
	}
	return o.CXXEnv
}

// Invocation is the resolved compiler invocation.
type Invocation struct {
	Mode Mode

	// Compiler is the real compiler as given.
	Compiler string

	// Args are the compiler flags, without the compiler itself.
	Args []string
}

// IsCompiler reports whether arg looks like a compiler path, i.e. it has
// a path separator or its basename names a gcc or clang driver.
// Flags and source or object files are not compilers.
func IsCompiler(arg string) bool {
	if arg == "" || strings.HasPrefix(arg, "-") {
		return false
	}
	switch filepath.Ext(arg) {
	case ".c", ".cc", ".cpp", ".cxx", ".S", ".s", ".h", ".hpp", ".o", ".a", ".d", ".rsp":
		return false
	}
	if strings.ContainsAny(arg, `/\`) {
		return true
	}
	name := strings.TrimSuffix(arg, ".exe")
	for _, suffix := range []string{"gcc", "g++", "cc", "c++", "clang", "clang++"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// compilesC reports whether args compile a C or assembler source.
func compilesC(args []string) bool {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			continue
		}
		switch filepath.Ext(arg) {
		case ".c", ".S", ".s":
			return true
		}
	}
	return false
}

// Resolve determines the real compiler and its flags from the wrapper's
// args (without the wrapper's own argv[0]).
// It returns an error wrapping ErrNoCompiler if the compiler is not
// given, or can't be found.
func Resolve(args []string, opts Options) (Invocation, error) {
	if len(args) >= 1 && IsCompiler(args[0]) {
		return Invocation{
			Mode:     Launcher,
			Compiler: args[0],
			Args:     args[1:],
		}, nil
	}
	envs := []string{opts.cxxEnv(), opts.ccEnv()}
	if compilesC(args) {
		envs = []string{opts.ccEnv(), opts.cxxEnv()}
	}
	for _, e := range envs {
		if opts.Getenv == nil {
			break
		}
		if v := opts.Getenv(e); v != "" {
			return Invocation{
				Mode:     Env,
				Compiler: v,
				Args:     args,
			}, nil
		}
	}
	return Invocation{Mode: Env, Args: args}, fmt.Errorf("%w: not in argv[1], $%s nor $%s", ErrNoCompiler, envs[0], envs[1])
}

// Command returns the command to run the real compiler with the
// `-include` directive in Args fixed by fi.
// The compiler is resolved by opts.LookPath.
func (inv Invocation) Command(fi gccutil.ForceInclude, opts Options) (*execute.Cmd, error) {
	if inv.Compiler == "" {
		return nil, ErrNoCompiler
	}
	lookPath := opts.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(inv.Compiler)
	if err != nil {
		return nil, fmt.Errorf("%w: %s compiler %q: %w", ErrNoCompiler, inv.Mode, inv.Compiler, err)
	}
	args := append([]string{inv.Compiler}, fi.Fix(inv.Args)...)
	return &execute.Cmd{
		Path: path,
		Args: args,
	}, nil
}
