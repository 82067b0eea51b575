// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shutil

import "strings"

// Join joins a command line args to a single string.
// Each arg is quoted only if needed, so Split(Join(args)) returns args.
func Join(args []string) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Quote(arg))
	}
	return sb.String()
}

func isShellSafeChar(ch rune) bool {
	if 'A' <= ch && ch <= 'Z' {
		return true
	}
	if 'a' <= ch && ch <= 'z' {
		return true
	}
	if '0' <= ch && ch <= '9' {
		return true
	}
	switch ch {
	case '_', '+', '-', '.', '/', '=', ',', ':', '@', '%':
		return true
	}
	return false
}

func needShellEscape(s string) bool {
	for _, ch := range s {
		if !isShellSafeChar(ch) {
			return true
		}
	}
	return false
}

// Quote quotes s with single quotes if it contains chars that a shell
// would interpret.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !needShellEscape(s) {
		return s
	}
	var sb strings.Builder
	sb.WriteString("'")
	for _, ch := range s {
		if ch == '\'' {
			sb.WriteString(`'\''`)
			continue
		}
		sb.WriteRune(ch)
	}
	sb.WriteString("'")
	return sb.String()
}
