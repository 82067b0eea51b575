// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cmakepatch rewrites `-include <header>` in generated CMake files
// to the sticky form `"-include<header>"`, which build generators can't
// split into two args.
//
//	target_compile_options(${COMPONENT_LIB} PUBLIC -include "${CMAKE_CURRENT_SOURCE_DIR}/src/display/ports/lvgl_port_alignment.h")
//
// becomes
//
//	target_compile_options(${COMPONENT_LIB} PUBLIC "-include${CMAKE_CURRENT_SOURCE_DIR}/src/display/ports/lvgl_port_alignment.h")
package cmakepatch

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/infra/build/incfix/toolsupport/gccutil"
)

// Filename is the CMake file name to patch in directories.
const Filename = "CMakeLists.txt"

// splitInclude matches `-include` and its separate argument, each quoted
// or not.
var splitInclude = regexp.MustCompile(`(^|[\s(])(-include|"-include")[ \t]+(?:"([^"\n]*)"|([^\s")]+))`)

// quoteScanner tracks whether a position of CMake content is inside
// a quoted argument.
type quoteScanner struct {
	content []byte
	pos     int
	quoted  bool
	comment bool
}

// inQuote reports whether content[i] is inside a quoted argument.
// i must not decrease between calls.
func (q *quoteScanner) inQuote(i int) bool {
	for ; q.pos < i; q.pos++ {
		ch := q.content[q.pos]
		switch {
		case q.comment:
			if ch == '\n' {
				q.comment = false
			}
		case ch == '\\':
			q.pos++
		case ch == '"':
			q.quoted = !q.quoted
		case ch == '#' && !q.quoted:
			q.comment = true
		}
	}
	return q.quoted
}

// Rewrite rewrites split `-include` of the header in content to the
// sticky form. It returns the new content and the number of rewrites.
// `-include` of other headers are kept.
//
// Outside of quotes, the directive becomes a quoted argument
// `"-include<path>"`. Inside a quoted argument, such as
// `"-O2 -include <path>"`, it becomes `-include<path>` in place.
func Rewrite(fi gccutil.ForceInclude, content []byte) ([]byte, int) {
	matches := splitInclude.FindAllSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content, 0
	}
	q := &quoteScanner{content: content}
	var buf bytes.Buffer
	n := 0
	last := 0
	for _, m := range matches {
		// m[2:4] is the separator before -include.
		// m[4:6] is -include, maybe quoted.
		// m[6:8] is the quoted path, m[8:10] is the unquoted path.
		var path []byte
		quotedPath := m[6] >= 0
		switch {
		case quotedPath:
			path = content[m[6]:m[7]]
		case m[8] >= 0:
			path = content[m[8]:m[9]]
		}
		inQuote := q.inQuote(m[3])
		if q.comment || !fi.IsHeader(string(path)) {
			continue
		}
		quotedFlag := content[m[4]] == '"'
		if inQuote && (quotedFlag || quotedPath) {
			// quotes would close the enclosing argument.
			continue
		}
		buf.Write(content[last:m[3]])
		if inQuote {
			buf.WriteString("-include")
			buf.Write(path)
		} else {
			buf.WriteString(`"-include`)
			buf.Write(path)
			buf.WriteString(`"`)
		}
		last = m[1]
		n++
	}
	if n == 0 {
		return content, 0
	}
	buf.Write(content[last:])
	return buf.Bytes(), n
}

// Result is a result of patching a file.
type Result struct {
	Filename string
	// Rewrites is the number of rewritten directives.
	Rewrites int
	// Err is the error of patching the file, if any.
	Err error
}

// PatchFile patches fname. If dryRun is true, it doesn't write the file.
// It doesn't write the file once ctx is done.
func PatchFile(ctx context.Context, fi gccutil.ForceInclude, fname string, dryRun bool) (Result, error) {
	st, err := os.Stat(fname)
	if err != nil {
		return Result{}, err
	}
	content, err := os.ReadFile(fname)
	if err != nil {
		return Result{}, err
	}
	patched, n := Rewrite(fi, content)
	r := Result{Filename: fname, Rewrites: n}
	if n == 0 || dryRun {
		return r, nil
	}
	if err := ctx.Err(); err != nil {
		return r, fmt.Errorf("not written %s: %w", fname, err)
	}
	err = os.WriteFile(fname, patched, st.Mode().Perm())
	if err != nil {
		return r, fmt.Errorf("failed to write %s: %w", fname, err)
	}
	log.Infof("patched %s: %d -include sticky form", fname, n)
	return r, nil
}

// Patch patches files in paths. A directory is walked for CMakeLists.txt.
// Files are patched concurrently. Results are sorted by filename.
// A file that fails to patch has its error in Result.Err, and doesn't
// stop patching other files. The returned error is for paths that can't
// be walked, or ctx being done.
func Patch(ctx context.Context, fi gccutil.ForceInclude, paths []string, dryRun bool) ([]Result, error) {
	var fnames []string
	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !st.IsDir() {
			fnames = append(fnames, p)
			continue
		}
		err = filepath.WalkDir(p, func(fname string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() == Filename {
				fnames = append(fnames, fname)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	var mu sync.Mutex
	var results []Result
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for _, fname := range fnames {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := PatchFile(ctx, fi, fname, dryRun)
			if err != nil {
				log.Warnf("patch %s: %v", fname, err)
				r.Filename = fname
				r.Err = err
			}
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	err := eg.Wait()
	sort.Slice(results, func(i, j int) bool {
		return results[i].Filename < results[j].Filename
	})
	return results, err
}
