// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// ccfilter is a compiler launcher that fixes the `-include` directive
// before running the real compiler.
//
//	ccfilter xtensa-esp32s3-elf-g++ -O2 -include -c main.cpp
//	PIO_REAL_CXX=xtensa-esp32s3-elf-g++ ccfilter -O2 -include -c main.cpp
//
// Use it as CMAKE_CXX_COMPILER_LAUNCHER, or as CC/CXX of a build
// environment with $PIO_REAL_CC/$PIO_REAL_CXX set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/incfix/hookconfig"
	"go.chromium.org/infra/build/incfix/subcmd/execcmd"
)

func main() {
	os.Exit(ccfilterMain(context.Background(), os.Args[1:]))
}

// ccfilterMain doesn't parse flags, as all args are the compiler's.
func ccfilterMain(ctx context.Context, args []string) int {
	log.SetOutput(os.Stderr)
	log.SetPrefix("ccfilter")
	log.SetLevel(log.WarnLevel)
	if v := os.Getenv("INCFIX_LOG_LEVEL"); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ccfilter: $INCFIX_LOG_LEVEL: %v\n", err)
			return 1
		}
		log.SetLevel(level)
	}
	cfg, err := hookconfig.Load(ctx, os.Getenv("INCFIX_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ccfilter: %v\n", err)
		return 1
	}
	return execcmd.Launch(ctx, cfg, args, nil, nil)
}
