// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package execcmd provides exec subcommand, which runs the real compiler
// with the `-include` directive fixed.
package execcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/incfix/execute"
	"go.chromium.org/infra/build/incfix/execute/localexec"
	"go.chromium.org/infra/build/incfix/hookconfig"
	"go.chromium.org/infra/build/incfix/toolsupport/ccwrap"
)

const usage = `run the real compiler with the fixed -include directive.

 $ incfix exec [-config <file>] -- <real-compiler> <args>...
 $ PIO_REAL_CXX=<real-compiler> incfix exec -- <args>...

The current process is replaced with the real compiler, so the exit code,
stdin, stdout and stderr are the real compiler's.
Set $INCFIX_NO_EXEC to run the real compiler as a child process instead.
`

// Cmd returns the Command for the `exec` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "exec [-config <file>] -- [<real-compiler>] <args>...",
		ShortDesc: "run the real compiler with the fixed -include directive",
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
}

func (c *run) init() {
	c.Flags.StringVar(&c.configFile, "config", os.Getenv("INCFIX_CONFIG"), "hook config file. can be set by $INCFIX_CONFIG")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	cfg, err := hookconfig.Load(ctx, c.configFile)
	if err != nil {
		fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		return 1
	}
	return Launch(ctx, cfg, args, nil, nil)
}

// Launch runs the real compiler for the wrapper's args (without argv[0]),
// and returns the exit code.
// On unix, it doesn't return if the real compiler is found, as the current
// process is replaced with it.
// stdout and stderr are used when the real compiler runs as a child
// process. If nil, os.Stdout and os.Stderr are used.
func Launch(ctx context.Context, cfg *hookconfig.Config, args []string, stdout, stderr io.Writer) int {
	if stderr == nil {
		stderr = os.Stderr
	}
	opts := cfg.CompilerOptions()
	inv, err := ccwrap.Resolve(args, opts)
	if err != nil {
		fmt.Fprintf(stderr, "incfix: %v\n", err)
		return 1
	}
	cmd, err := inv.Command(cfg.ForceInclude(), opts)
	if err != nil {
		fmt.Fprintf(stderr, "incfix: %v\n", err)
		return 1
	}
	log.Debugf("mode=%s real=%s args=%q", inv.Mode, cmd.Path, cmd.Args)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	ctx, cancel := context.WithCancel(ctx)
	defer signals.HandleInterrupt(cancel)()
	err = localexec.Exec(ctx, cmd)
	var eerr execute.ExitError
	switch {
	case errors.As(err, &eerr):
		return eerr.ExitCode
	case err != nil:
		fmt.Fprintf(stderr, "incfix: %v\n", err)
		return 1
	}
	return 0
}
