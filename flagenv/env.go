// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package flagenv

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"

	"go.chromium.org/infra/build/incfix/toolsupport/gccutil"
)

// DefaultFlagVars are flag variables of SCons/PlatformIO build environments
// that may carry the `-include` directive.
var DefaultFlagVars = []string{
	"CCFLAGS",
	"CFLAGS",
	"CXXFLAGS",
	"CPPFLAGS",
	"ASFLAGS",
	"LINKFLAGS",
	"BUILD_FLAGS",
}

// DefaultCommandVars are command template variables of SCons build
// environments.
var DefaultCommandVars = []string{
	"CCCOM",
	"CXXCOM",
	"SHCCCOM",
	"SHCXXCOM",
}

// Env is a build environment: flag variable name to its value.
type Env map[string]Value

// SanitizeEnv returns a copy of env with the variables named by keys
// sanitized. Missing keys are ignored. env is not modified.
func SanitizeEnv(fi gccutil.ForceInclude, env Env, keys []string) Env {
	out := maps.Clone(env)
	if out == nil {
		out = Env{}
	}
	for _, key := range keys {
		v, ok := env[key]
		if !ok {
			continue
		}
		out[key] = Sanitize(fi, v)
	}
	return out
}

// ReadEnv reads a JSON object of flag variables.
func ReadEnv(r io.Reader) (Env, error) {
	env := Env{}
	d := json.NewDecoder(r)
	if err := d.Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	return env, nil
}

// WriteEnv writes env as an indented JSON object.
func WriteEnv(w io.Writer, env Env) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	e.SetEscapeHTML(false)
	return e.Encode(env)
}

// ReadEnvFile reads env from fname. "-" reads stdin.
func ReadEnvFile(fname string) (Env, error) {
	if fname == "-" {
		return ReadEnv(os.Stdin)
	}
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	env, err := ReadEnv(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return env, nil
}
