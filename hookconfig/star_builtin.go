// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package hookconfig

import (
	"runtime"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"go.chromium.org/infra/build/incfix/flagenv"
	"go.chromium.org/infra/build/incfix/toolsupport/gccutil"
)

func predeclared() starlark.StringDict {
	incfixModule := &starlarkstruct.Module{
		Name: "incfix",
		Members: starlark.StringDict{
			"default_header": starlark.String(gccutil.DefaultHeader),
			"os":             starlark.String(runtime.GOOS),
			"sanitize":       starlark.NewBuiltin("sanitize", starSanitize),
			"is_header":      starlark.NewBuiltin("is_header", starIsHeader),
		},
	}
	incfixModule.Freeze()
	return starlark.StringDict{
		"incfix": incfixModule,
	}
}

// Starlark function `incfix.sanitize(flags, header=)` to fix the
// `-include` directive in flags.
// flags is a list, a tuple or a string. It returns a value of the same type.
func starSanitize(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var flagsValue starlark.Value
	var header string
	err := starlark.UnpackArgs("sanitize", args, kwargs, "flags", &flagsValue, "header?", &header)
	if err != nil {
		return starlark.None, err
	}
	fi := gccutil.ForceInclude{Header: header}
	if s, ok := flagsValue.(starlark.String); ok {
		v := flagenv.Sanitize(fi, flagenv.String(string(s)))
		return starlark.String(v.String()), nil
	}
	flags, err := unpackList(flagsValue)
	if err != nil {
		return starlark.None, err
	}
	fixed := fi.Fix(flags)
	values := make([]starlark.Value, 0, len(fixed))
	for _, arg := range fixed {
		values = append(values, starlark.String(arg))
	}
	if _, ok := flagsValue.(starlark.Tuple); ok {
		return starlark.Tuple(values), nil
	}
	return starlark.NewList(values), nil
}

// Starlark function `incfix.is_header(arg, header=)` to check arg
// names the header.
func starIsHeader(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var arg, header string
	err := starlark.UnpackArgs("is_header", args, kwargs, "arg", &arg, "header?", &header)
	if err != nil {
		return starlark.None, err
	}
	fi := gccutil.ForceInclude{Header: header}
	return starlark.Bool(fi.IsHeader(arg)), nil
}
