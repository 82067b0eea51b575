// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package sanitize provides sanitize subcommand.
package sanitize

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/incfix/flagenv"
	"go.chromium.org/infra/build/incfix/hookconfig"
)

const usage = `fix the -include directive in compiler flags.

 $ incfix sanitize [-config <file>] [-header <name>] -- <args>...

prints the fixed args, one per line.

 $ incfix sanitize [-config <file>] [-header <name>] -cmdline '<flags>'

prints the fixed flags string.
`

// Cmd returns the Command for the `sanitize` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "sanitize [-header <name>] [-cmdline <flags>] -- <args>...",
		ShortDesc: "fix the -include directive in compiler flags",
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
	header     string
	cmdline    string
	report     bool
}

func (c *run) init() {
	c.Flags.StringVar(&c.configFile, "config", os.Getenv("INCFIX_CONFIG"), "hook config file. can be set by $INCFIX_CONFIG")
	c.Flags.StringVar(&c.header, "header", "", "header to repair. default is the config's header")
	c.Flags.StringVar(&c.cmdline, "cmdline", "", "flags string to fix, instead of args")
	c.Flags.BoolVar(&c.report, "report", false, "report the changes to stderr")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	cfg, err := hookconfig.Load(ctx, c.configFile)
	if err != nil {
		fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		return 1
	}
	err = c.run(cfg, args, a.GetOut(), a.GetErr())
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(a.GetErr(), "%v\n%s\n", err, usage)
			return 2
		default:
			fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(cfg *hookconfig.Config, args []string, stdout, stderr io.Writer) error {
	if c.header != "" {
		cfg.Header = c.header
	}
	fi := cfg.ForceInclude()
	var v flagenv.Value
	switch {
	case c.cmdline != "" && len(args) > 0:
		return fmt.Errorf("both -cmdline and args are given: %w", flag.ErrHelp)
	case c.cmdline != "":
		v = flagenv.String(c.cmdline)
	default:
		v = flagenv.List(args...)
	}
	fixed, r := flagenv.SanitizeWithReport(fi, v)
	if c.report && r.Changed() {
		fmt.Fprintf(stderr, "moved=%d dropped_includes=%d dropped_headers=%d\n", r.Moved, r.DroppedIncludes, r.DroppedHeaders)
	}
	log.Debugf("sanitize %q -> %q", v, fixed)
	if fixed.IsString() {
		_, err := fmt.Fprintln(stdout, fixed.String())
		return err
	}
	for _, arg := range fixed.Args() {
		_, err := fmt.Fprintln(stdout, arg)
		if err != nil {
			return err
		}
	}
	return nil
}
