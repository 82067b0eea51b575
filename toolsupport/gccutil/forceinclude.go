// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gccutil

import (
	"strings"
)

// DefaultHeader is the forced include header that generated esp_lvgl_adapter
// builds inject with `-include`.
const DefaultHeader = "lvgl_port_alignment.h"

const includeFlag = "-include"

// ForceInclude repairs `-include <Header>` directives in gcc command lines.
//
// Build generators sometimes split the pair so that the header ends up as
// an extra input file, e.g.
//
//	-O2 -include -Wall /path/to/lvgl_port_alignment.h
//
// which gcc reads as `-include -Wall` plus a second input file.
type ForceInclude struct {
	// Header is the basename of the header to repair.
	// DefaultHeader is used if empty.
	Header string
}

// Report summarizes the edits done by FixWithReport.
type Report struct {
	// Moved is the number of orphan headers moved next to `-include`.
	Moved int
	// DroppedIncludes is the number of `-include` flags removed.
	DroppedIncludes int
	// DroppedHeaders is the number of header tokens removed.
	DroppedHeaders int
}

// Changed reports whether any edit happened.
func (r Report) Changed() bool {
	return r.Moved > 0 || r.DroppedIncludes > 0 || r.DroppedHeaders > 0
}

func (fi ForceInclude) header() string {
	if fi.Header == "" {
		return DefaultHeader
	}
	return fi.Header
}

// IsHeader reports whether arg names the header, either by its basename or
// by a path ending with "/" + basename. Flags never match.
func (fi ForceInclude) IsHeader(arg string) bool {
	if arg == "" || strings.HasPrefix(arg, "-") {
		return false
	}
	h := fi.header()
	if arg == h {
		return true
	}
	return strings.HasSuffix(strings.ReplaceAll(arg, `\`, "/"), "/"+h)
}

// isSticky reports whether arg is `-include<path>` for the header.
func (fi ForceInclude) isSticky(arg string) bool {
	path, ok := strings.CutPrefix(arg, includeFlag)
	if !ok {
		return false
	}
	return fi.IsHeader(path)
}

// orphan returns the index of the first header token that is not
// already the argument of `-include`, or -1.
func (fi ForceInclude) orphan(args []string) int {
	for i, arg := range args {
		if !fi.IsHeader(arg) {
			continue
		}
		if i > 0 && args[i-1] == includeFlag {
			continue
		}
		return i
	}
	return -1
}

// Fix returns args with the `-include <Header>` directive repaired.
// args is not modified.
//
// A `-include` without argument (or followed by another flag) takes the
// first orphan header found in args; when there is no orphan, the
// `-include` is dropped. The header appears at most once in the result,
// right after `-include`. `-include` for other headers are kept as is.
// Fix is idempotent.
func (fi ForceInclude) Fix(args []string) []string {
	out, _ := fi.FixWithReport(args)
	return out
}

// FixWithReport is like Fix, and also reports what was changed.
func (fi ForceInclude) FixWithReport(args []string) ([]string, Report) {
	var r Report
	orphan := fi.orphan(args)
	moved := false
	placed := false
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == includeFlag:
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
				// broken: `-include` lost its argument.
				if orphan >= 0 && !placed {
					out = append(out, includeFlag, args[orphan])
					placed = true
					moved = true
					r.Moved++
					continue
				}
				r.DroppedIncludes++
				continue
			}
			next := args[i+1]
			i++
			if fi.IsHeader(next) {
				if placed {
					r.DroppedIncludes++
					r.DroppedHeaders++
					continue
				}
				placed = true
			}
			out = append(out, arg, next)
		case fi.isSticky(arg):
			if placed {
				r.DroppedIncludes++
				continue
			}
			placed = true
			out = append(out, arg)
		case fi.IsHeader(arg):
			// header as stray input file, or the orphan
			// moved (or to be moved) next to `-include`.
			if i != orphan {
				r.DroppedHeaders++
			}
		default:
			out = append(out, arg)
		}
	}
	if orphan >= 0 && !moved {
		r.DroppedHeaders++
	}
	return out, r
}
