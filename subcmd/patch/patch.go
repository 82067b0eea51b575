// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package patch provides patch subcommand, which rewrites split
// `-include` in CMake files to the sticky form.
package patch

import (
	"fmt"
	"os"
	"time"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/incfix/cmakepatch"
	"go.chromium.org/infra/build/incfix/hookconfig"
	"go.chromium.org/infra/build/incfix/ui"
)

const usage = `rewrite split -include in CMake files to the sticky form.

 $ incfix patch [-n] <dir or CMakeLists.txt>...

Directories are walked for CMakeLists.txt.
-n reports files to be patched without writing them.
`

// Cmd returns the Command for the `patch` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "patch [-n] <path>...",
		ShortDesc: "rewrite split -include in CMake files",
		LongDesc:  usage,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	configFile string
	dryRun     bool
}

func (c *run) init() {
	c.Flags.StringVar(&c.configFile, "config", os.Getenv("INCFIX_CONFIG"), "hook config file. can be set by $INCFIX_CONFIG")
	c.Flags.BoolVar(&c.dryRun, "n", false, "dry run. don't write files")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if len(args) == 0 {
		fmt.Fprintf(a.GetErr(), "%s: no path given\n%s\n", a.GetName(), usage)
		return 2
	}
	cfg, err := hookconfig.Load(ctx, c.configFile)
	if err != nil {
		fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		return 1
	}
	started := time.Now()
	results, err := cmakepatch.Patch(ctx, cfg.ForceInclude(), args, c.dryRun)
	failed := printResults(ui.New(os.Stdout), results, c.dryRun, time.Since(started))
	if err != nil {
		fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		return 1
	}
	if failed > 0 {
		fmt.Fprintf(a.GetErr(), "Error: failed to patch %d files\n", failed)
		return 1
	}
	return 0
}

// printResults prints results, and returns the number of failed files.
func printResults(u ui.UI, results []cmakepatch.Result, dryRun bool, dur time.Duration) int {
	verb := ui.SGR(ui.Green, "patched")
	if dryRun {
		verb = ui.SGR(ui.Yellow, "would patch")
	}
	n := 0
	failed := 0
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			u.Warningf("%s %s: %v", ui.SGR(ui.Red, "failed"), r.Filename, r.Err)
		case r.Rewrites > 0:
			n++
			u.Infof("%s %s: %d", verb, r.Filename, r.Rewrites)
		}
	}
	u.Infof("%d/%d files in %s", n, len(results), ui.FormatDuration(dur))
	return failed
}
