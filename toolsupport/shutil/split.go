// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shutil

import (
	"bytes"
	"errors"
	"strings"
)

var (
	// ErrUnterminatedQuote is returned when a quote is not closed.
	ErrUnterminatedQuote = errors.New("unterminated quote")

	// ErrTrailingBackslash is returned when cmdline ends with an escape.
	ErrTrailingBackslash = errors.New("trailing backslash")
)

// Split splits a command line into words, like a POSIX shell does for
// simple commands.
// It handles single quotes, double quotes and backslash escapes.
// Other shell metacharacters are kept as is in words.
func Split(cmdline string) ([]string, error) {
	var args []string
	sb := bytes.NewBuffer(make([]byte, 0, len(cmdline)))
	// inword is true once the current word has started, so `""` makes
	// an empty word.
	inword := false
	var quote rune
	escaped := false
	for _, ch := range cmdline {
		if escaped {
			escaped = false
			if ch == '\n' {
				// line continuation.
				continue
			}
			if quote == '"' {
				switch ch {
				case '"', '\\', '$', '`':
				default:
					sb.WriteByte('\\')
				}
			}
			sb.WriteRune(ch)
			inword = true
			continue
		}
		switch quote {
		case '\'':
			if ch == '\'' {
				quote = 0
				continue
			}
			sb.WriteRune(ch)
			continue
		case '"':
			switch ch {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				sb.WriteRune(ch)
			}
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '\'', '"':
			quote = ch
			inword = true
		case ' ', '\t', '\n', '\r':
			if inword {
				args = append(args, sb.String())
				sb.Reset()
				inword = false
			}
		default:
			sb.WriteRune(ch)
			inword = true
		}
	}
	if escaped {
		return nil, ErrTrailingBackslash
	}
	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	if inword {
		args = append(args, sb.String())
	}
	return args, nil
}

// Fields splits cmdline by Split, and falls back to splitting by
// whitespace if cmdline is not well quoted.
// It also returns the Split error, if any.
func Fields(cmdline string) ([]string, error) {
	args, err := Split(cmdline)
	if err != nil {
		return strings.Fields(cmdline), err
	}
	return args, nil
}
