// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package template provides template subcommand, which expands compile
// command templates with sanitized flag variables.
package template

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/incfix/flagenv"
	"go.chromium.org/infra/build/incfix/hookconfig"
)

const usage = `expand compile command templates with sanitized flag variables.

 $ incfix template -in <env.json> '$CXX -o $TARGET -c $CXXFLAGS $SOURCES'

prints the template with the flag variables expanded.
Other variables, such as $CXX, are kept for the build system.

 $ incfix template -in <env.json>

prints NAME=<expanded> for each command variable in env.
`

// Cmd returns the Command for the `template` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "template -in <env.json> [<template>]",
		ShortDesc: "expand compile command templates with sanitized flags",
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
	c.Flags.StringVar(&c.vars, "vars", "", "comma separated flag variables to expand. default is the config's flag_vars")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if len(args) > 1 {
		fmt.Fprintf(a.GetErr(), "%s: too many arguments\n%s\n", a.GetName(), usage)
		return 2
	}
	cfg, err := hookconfig.Load(ctx, c.configFile)
	if err != nil {
		fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		return 1
	}
	err = c.run(cfg, args, a.GetOut())
	if err != nil {
		fmt.Fprintf(a.GetErr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *run) run(cfg *hookconfig.Config, args []string, w io.Writer) error {
	buildEnv, err := flagenv.ReadEnvFile(c.input)
	if err != nil {
		return err
	}
	keys := cfg.FlagVars
	if c.vars != "" {
		keys = strings.Split(c.vars, ",")
	}
	fi := cfg.ForceInclude()
	if len(args) == 1 {
		_, err := fmt.Fprintln(w, flagenv.Template(args[0]).Resolve(fi, buildEnv, keys))
		return err
	}
	for _, name := range cfg.CommandVars {
		v, ok := buildEnv[name]
		if !ok {
			continue
		}
		t := flagenv.Template(v.String())
		_, err := fmt.Fprintf(w, "%s=%s\n", name, t.Resolve(fi, buildEnv, keys))
		if err != nil {
			return err
		}
	}
	return nil
}
