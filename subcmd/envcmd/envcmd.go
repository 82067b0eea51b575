// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package envcmd provides env subcommand, which sanitizes flag variables
// of a build environment.
package envcmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/incfix/flagenv"
	"go.chromium.org/infra/build/incfix/hookconfig"
)

const usage = `sanitize flag variables of a build environment.

 $ incfix env [-config <file>] [-in <env.json>] [-vars CCFLAGS,CXXFLAGS]

reads a JSON object of flag variables, such as

 {"CCFLAGS": ["-O2", "-include", "-Wall"], "BUILD_FLAGS": "-DFOO -include"}

and writes the JSON object with the -include directive fixed in the flag
variables. Values are lists of args or command line strings, and keep
their form. Other variables are copied as is.
`

// Cmd returns the Command for the `env` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "env [-in <env.json>] [-vars <names>]",
		ShortDesc: "sanitize flag variables of a build environment",
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
	input      string
	vars       string
}

func (c *run) init() {
	c.Flags.StringVar(&c.configFile, "config", os.Getenv("INCFIX_CONFIG"), "hook config file. can be set by $INCFIX_CONFIG")
	c.Flags.StringVar(&c.input, "in", "-", `env JSON file. "-" for stdin`)
	c.Flags.StringVar(&c.vars, "vars", "", "comma separated flag variables to sanitize. default is the config's flag_vars")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 2
	}
	cfg, err := hookconfig.Load(ctx, c.configFile)
	if err != nil {
		fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		return 1
	}
	err = c.run(cfg, a.GetOut())
	if err != nil {
		fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *run) run(cfg *hookconfig.Config, w io.Writer) error {
	buildEnv, err := flagenv.ReadEnvFile(c.input)
	if err != nil {
		return err
	}
	keys := cfg.FlagVars
	if c.vars != "" {
		keys = strings.Split(c.vars, ",")
	}
	log.Debugf("sanitize %q", keys)
	return flagenv.WriteEnv(w, flagenv.SanitizeEnv(cfg.ForceInclude(), buildEnv, keys))
}
