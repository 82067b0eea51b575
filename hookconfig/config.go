// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package hookconfig provides the build hook config for incfix.
//
// A config is a Starlark file that may set the following globals.
//
//	header = "lvgl_port_alignment.h"     # header to repair
//	flag_vars = ["CCFLAGS", "CXXFLAGS"]  # flag variables to sanitize
//	command_vars = ["CCCOM", "CXXCOM"]   # command templates to resolve
//	cc_env = "PIO_REAL_CC"               # real C compiler env var
//	cxx_env = "PIO_REAL_CXX"             # real C++ compiler env var
//
// The predeclared `incfix` module provides `incfix.sanitize(flags, header=)`
// and `incfix.is_header(arg, header=)`, and `incfix.default_header`.
package hookconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"

	"go.chromium.org/infra/build/incfix/flagenv"
	"go.chromium.org/infra/build/incfix/toolsupport/ccwrap"
	"go.chromium.org/infra/build/incfix/toolsupport/gccutil"
)

const (
	globalHeader      = "header"
	globalFlagVars    = "flag_vars"
	globalCommandVars = "command_vars"
	globalCCEnv       = "cc_env"
	globalCXXEnv      = "cxx_env"
)

// Config is a build hook config.
type Config struct {
	// Header is the basename of the header to repair.
	Header string

	// FlagVars are the flag variables to sanitize.
	FlagVars []string

	// CommandVars are the command template variables.
	CommandVars []string

	// CCEnv and CXXEnv are the environment variables of the real
	// compilers.
	CCEnv, CXXEnv string
}

// Default returns the default config.
func Default() *Config {
	return &Config{
		Header:      gccutil.DefaultHeader,
		FlagVars:    slices.Clone(flagenv.DefaultFlagVars),
		CommandVars: slices.Clone(flagenv.DefaultCommandVars),
		CCEnv:       ccwrap.CCEnv,
		CXXEnv:      ccwrap.CXXEnv,
	}
}

// ForceInclude returns the fixer for the config's header.
func (cfg *Config) ForceInclude() gccutil.ForceInclude {
	return gccutil.ForceInclude{Header: cfg.Header}
}

// CompilerOptions returns options to resolve the real compiler.
func (cfg *Config) CompilerOptions() ccwrap.Options {
	return ccwrap.Options{
		Getenv: os.Getenv,
		CCEnv:  cfg.CCEnv,
		CXXEnv: cfg.CXXEnv,
	}
}

// Load loads the config from fname.
// It returns Default if fname is empty.
func Load(ctx context.Context, fname string) (*Config, error) {
	if fname == "" {
		return Default(), nil
	}
	src, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(ctx, fname, src)
}

// Parse parses the config in src. fname is used in error messages.
// The config execution is canceled when ctx is done.
func Parse(ctx context.Context, fname string, src []byte) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("failed to exec %s: %w", fname, err)
	}
	thread := &starlark.Thread{
		Name: "hookconfig",
		Print: func(thread *starlark.Thread, msg string) {
			log.Infof("thread:%s %s", thread.Name, msg)
		},
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(context.Cause(ctx).Error())
		case <-done:
		}
	}()
	globals, err := starlark.ExecFile(thread, fname, src, predeclared())
	if err != nil {
		var eerr *starlark.EvalError
		if errors.As(err, &eerr) {
			log.Warnf("stacktrace:\n%s", eerr.Backtrace())
		}
		return nil, fmt.Errorf("failed to exec %s: %w", fname, err)
	}
	cfg := Default()
	if err := unpackString(globals, globalHeader, &cfg.Header); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if cfg.Header == "" {
		return nil, fmt.Errorf("%s: %s is empty", fname, globalHeader)
	}
	if err := unpackStrings(globals, globalFlagVars, &cfg.FlagVars); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if err := unpackStrings(globals, globalCommandVars, &cfg.CommandVars); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if err := unpackString(globals, globalCCEnv, &cfg.CCEnv); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if err := unpackString(globals, globalCXXEnv, &cfg.CXXEnv); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	log.Debugf("config %s: %+v", fname, cfg)
	return cfg, nil
}

func unpackString(globals starlark.StringDict, name string, p *string) error {
	v, ok := globals[name]
	if !ok {
		return nil
	}
	s, ok := starlark.AsString(v)
	if !ok {
		return fmt.Errorf("%s: want string, got %s", name, v.Type())
	}
	*p = s
	return nil
}

func unpackStrings(globals starlark.StringDict, name string, p *[]string) error {
	v, ok := globals[name]
	if !ok {
		return nil
	}
	list, err := unpackList(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*p = list
	return nil
}

// unpackList unpacks a Starlark list or tuple of strings.
func unpackList(v starlark.Value) ([]string, error) {
	var iter starlark.Iterable
	switch v := v.(type) {
	case *starlark.List:
		iter = v
	case starlark.Tuple:
		iter = v
	default:
		return nil, fmt.Errorf("want list or tuple, got %s", v.Type())
	}
	it := iter.Iterate()
	defer it.Done()
	list := []string{}
	var elem starlark.Value
	for it.Next(&elem) {
		s, ok := starlark.AsString(elem)
		if !ok {
			return nil, fmt.Errorf("want string element, got %s", elem.Type())
		}
		list = append(list, s)
	}
	return list, nil
}
