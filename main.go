// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Command pydist selects Python distribution files from find-links locations, and extracts
// requirement information from pyproject.toml files.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/datawire/pydist/pkg/cliutil"
)

var (
	logger     = logrus.New()
	argVerbose bool
)

var argparser = &cobra.Command{
	Use:   "pydist {[flags]|SUBCOMMAND...}",
	Short: "Select Python distributions from find-links locations",

	Args: cliutil.OnlySubcommands,
	RunE: cliutil.RunSubcommands,

	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if argVerbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	},

	SilenceErrors: true, // main() will handle this after .ExecuteContext() returns
	SilenceUsage:  true, // our FlagErrorFunc will handle it
}

func init() {
	argparser.SetFlagErrorFunc(cliutil.FlagErrorFunc)
	argparser.SetHelpTemplate(cliutil.HelpTemplate)
	argparser.PersistentFlags().BoolVarP(&argVerbose, "verbose", "v", false,
		"Log debugging information")
}

func main() {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	ctx := dlog.WithLogger(context.Background(), dlog.WrapLogrus(logger))

	if err := argparser.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(argparser.ErrOrStderr(), "%s: error: %v\n", argparser.CommandPath(), err)
		os.Exit(1)
	}
}
