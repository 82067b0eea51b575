// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package flagenv applies the `-include` fix to build environment flag
// variables, in list or string form.
package flagenv

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/incfix/toolsupport/gccutil"
	"go.chromium.org/infra/build/incfix/toolsupport/shutil"
)

// Value is a flag variable value. It is either a list of args or
// a command line string.
type Value struct {
	list     []string
	str      string
	isString bool
}

// List returns a list form Value.
func List(args ...string) Value {
	return Value{list: args}
}

// String returns a string form Value.
func String(s string) Value {
	return Value{str: s, isString: true}
}

// IsString reports whether v is in string form.
func (v Value) IsString() bool {
	return v.isString
}

// Args returns v as args.
// String form is split like shell words.
func (v Value) Args() []string {
	if !v.isString {
		return v.list
	}
	args, err := shutil.Fields(v.str)
	if err != nil {
		log.Warnf("split %q: %v. use whitespace split", v.str, err)
	}
	return args
}

// String returns v as a command line string.
func (v Value) String() string {
	if v.isString {
		return v.str
	}
	return shutil.Join(v.list)
}

// Sanitize returns v with the `-include` directive fixed by fi.
// The result has the same form as v.
func Sanitize(fi gccutil.ForceInclude, v Value) Value {
	fixed, _ := SanitizeWithReport(fi, v)
	return fixed
}

// SanitizeWithReport is like Sanitize, and also reports what was changed.
// v is returned as is when nothing changed.
func SanitizeWithReport(fi gccutil.ForceInclude, v Value) (Value, gccutil.Report) {
	args, r := fi.FixWithReport(v.Args())
	if !r.Changed() {
		return v, r
	}
	log.Debugf("fixed %q: moved=%d dropped_includes=%d dropped_headers=%d", v.String(), r.Moved, r.DroppedIncludes, r.DroppedHeaders)
	if v.isString {
		return String(shutil.Join(args)), r
	}
	return List(args...), r
}

// MarshalJSON encodes v as a JSON string or a JSON array of strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isString {
		return json.Marshal(v.str)
	}
	if v.list == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.list)
}

// UnmarshalJSON decodes a JSON string or a JSON array of strings.
func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return fmt.Errorf("flag value must be a string or a list of strings: %s", b)
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = String(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("flag value must be a string or a list of strings: %s", b)
	}
	*v = List(list...)
	return nil
}
