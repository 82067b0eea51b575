// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package flagenv

import (
	"slices"
	"strings"

	"go.chromium.org/infra/build/incfix/toolsupport/gccutil"
)

// Template is a command template, e.g.
//
//	$CXX -o $TARGET -c $CXXFLAGS $CCFLAGS $_CCCOMCOM $SOURCES
//
// Variables are referenced as $NAME or ${NAME}. `$$` is an escaped `$`.
type Template string

// ref is a variable reference in a template.
type ref struct {
	start, end int // template[start:end] is the reference text.
	name       string
}

func isVarnameChar(ch byte, first bool) bool {
	switch {
	case 'A' <= ch && ch <= 'Z', 'a' <= ch && ch <= 'z', ch == '_':
		return true
	case '0' <= ch && ch <= '9':
		return !first
	}
	return false
}

// refs returns variable references in t.
// `${...}` that is not a plain variable name (e.g. `${SOURCES[0]}`) is
// not a reference.
func (t Template) refs() []ref {
	s := string(t)
	var refs []ref
	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 >= len(s) {
			continue
		}
		switch ch := s[i+1]; {
		case ch == '$':
			i++
		case ch == '{':
			j := strings.IndexByte(s[i+2:], '}')
			if j < 0 {
				return refs
			}
			name := s[i+2 : i+2+j]
			end := i + 2 + j + 1
			if isVarname(name) {
				refs = append(refs, ref{start: i, end: end, name: name})
			}
			i = end - 1
		case isVarnameChar(ch, true):
			j := i + 1
			for j < len(s) && isVarnameChar(s[j], false) {
				j++
			}
			refs = append(refs, ref{start: i, end: j, name: s[i+1 : j]})
			i = j - 1
		}
	}
	return refs
}

func isVarname(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isVarnameChar(name[i], i == 0) {
			return false
		}
	}
	return true
}

// Vars returns names of variables referenced in t, in order of first
// appearance.
func (t Template) Vars() []string {
	var names []string
	for _, r := range t.refs() {
		if !slices.Contains(names, r.name) {
			names = append(names, r.name)
		}
	}
	return names
}

// Resolve expands references to the flag variables in keys with their
// sanitized values in env. If keys is nil, every variable in env is
// expanded. Other references and the rest of the template text are kept
// verbatim, so the result can still be expanded by the build system.
// t itself is never rewritten.
func (t Template) Resolve(fi gccutil.ForceInclude, env Env, keys []string) string {
	s := string(t)
	var sb strings.Builder
	last := 0
	for _, r := range t.refs() {
		v, ok := env[r.name]
		if !ok {
			continue
		}
		if keys != nil && !slices.Contains(keys, r.name) {
			continue
		}
		sb.WriteString(s[last:r.start])
		sb.WriteString(Sanitize(fi, v).String())
		last = r.end
	}
	sb.WriteString(s[last:])
	return sb.String()
}
