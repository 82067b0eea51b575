// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/incfix/subcmd/envcmd"
	"go.chromium.org/infra/build/incfix/subcmd/execcmd"
	"go.chromium.org/infra/build/incfix/subcmd/help"
	"go.chromium.org/infra/build/incfix/subcmd/patch"
	"go.chromium.org/infra/build/incfix/subcmd/sanitize"
	"go.chromium.org/infra/build/incfix/subcmd/template"
	"go.chromium.org/infra/build/incfix/subcmd/version"
	"go.chromium.org/infra/build/incfix/ui"
)

// incfix repairs the `-include` force-include directive in compiler flags
// of ESP-IDF/PlatformIO builds.

const ver = "incfix v0.1.0"

var logLevel = flag.String("log_level", envOr("INCFIX_LOG_LEVEL", "warn"), "log level (debug, info, warn, error). can be set by $INCFIX_LOG_LEVEL")

func main() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(out, "global flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(incfixMain(context.Background(), flag.Args()))
}

func getApplication(ctx context.Context) *cli.Application {
	return &cli.Application{
		Name:  "incfix",
		Title: "force-include directive fixer for ESP-IDF/PlatformIO builds",
		Context: func(context.Context) context.Context {
			return ctx
		},
		Commands: []*subcommands.Command{
			sanitize.Cmd(),
			envcmd.Cmd(),
			template.Cmd(),
			patch.Cmd(),
			execcmd.Cmd(),

			help.Cmd(),
			version.Cmd(ver),
		},
		EnvVars: map[string]subcommands.EnvVarDefinition{
			"INCFIX_CONFIG": {
				ShortDesc: "hook config file",
			},
			"INCFIX_LOG_LEVEL": {
				ShortDesc: "log level",
			},
		},
	}
}

func incfixMain(ctx context.Context, args []string) int {
	ctx, cancel := context.WithCancel(ctx)
	defer signals.HandleInterrupt(cancel)()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -log_level: %v\n", err)
		return 2
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetPrefix("incfix")

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	// Print build information to the log.
	buildinfo, ok := debug.ReadBuildInfo()
	log.Debugf("buildinfo: ok=%t", ok)
	if ok {
		log.Debugf("main module: %s %s", moduleInfo(&buildinfo.Main), vcsInfo(buildinfo))
	}

	ui.Init()
	defer ui.Restore()
	return subcommands.Run(getApplication(ctx), args)
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func moduleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("path:%s version:%s sum:%s replace:%s", m.Path, m.Version, m.Sum, moduleInfo(m.Replace))
}

func vcsInfo(buildinfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildinfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("vcs[revision=%s time=%s modified=%s]", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
