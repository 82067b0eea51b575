// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ui provides user interface functionalities.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// UI is a user interface to report results.
type UI interface {
	// Infof prints a result line.
	Infof(format string, args ...any)
	// Warningf prints a warning line.
	Warningf(format string, args ...any)
}

// New returns a UI that writes to f.
// It is TermUI if f is a terminal, LogUI otherwise.
func New(f *os.File) UI {
	if term.IsTerminal(int(f.Fd())) {
		return &TermUI{W: f}
	}
	return &LogUI{W: f}
}

// TermUI is a terminal UI. It keeps ANSI escape sequences.
type TermUI struct {
	W io.Writer
}

// Infof prints a result line.
func (u *TermUI) Infof(format string, args ...any) {
	fmt.Fprintln(u.W, fmt.Sprintf(format, args...))
}

// Warningf prints a warning line in yellow.
func (u *TermUI) Warningf(format string, args ...any) {
	fmt.Fprintln(u.W, SGR(Yellow, fmt.Sprintf(format, args...)))
}

// LogUI is a plain text UI for pipes and files.
type LogUI struct {
	W io.Writer
}

// Infof prints a result line, stripping ansi escape sequence.
func (u *LogUI) Infof(format string, args ...any) {
	fmt.Fprintln(u.W, StripANSIEscapeCodes(fmt.Sprintf(format, args...)))
}

// Warningf reports to the log, stripping ansi escape sequence.
func (u *LogUI) Warningf(format string, args ...any) {
	log.Helper()
	log.Warn(StripANSIEscapeCodes(fmt.Sprintf(format, args...)))
}

// https://en.wikipedia.org/wiki/ANSI_escape_code#SGR_(Select_Graphic_Rendition)_parameters
type SGRCode int

const (
	Bold SGRCode = iota
	Red
	Green
	Yellow
	Reset
)

var sgrEscSeq = map[SGRCode]string{
	Bold:   "\033[1m",
	Red:    "\033[31;1m",
	Green:  "\033[32m",
	Yellow: "\033[33m",
	Reset:  "\033[0m",
}

func (s SGRCode) String() string {
	return sgrEscSeq[s]
}

// SGR formats s in SGR (select graphic rendition).
func SGR(n SGRCode, s string) string {
	return fmt.Sprintf("%s%s%s", n, s, Reset)
}

// StripANSIEscapeCodes strips ANSI escape codes.
func StripANSIEscapeCodes(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\033' {
			// not an escape code.
			sb.WriteByte(s[i])
			continue
		}
		// Only strip CSIs for now.
		if i+1 >= len(s) {
			break
		}
		if s[i+1] != '[' {
			// Not a CSI.
			continue
		}
		i += 2

		// Skip everything up to and including the next [a-zA-Z].
		for i < len(s) && !((s[i] >= 'a' && s[i] <= 'z') || s[i] >= 'A' && s[i] <= 'Z') {
			i++
		}
	}
	return sb.String()
}
