// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/datawire/pydist/pkg/cliutil"
	"github.com/datawire/pydist/pkg/python/pyinspect"
)

func init() {
	var interpreter string
	cmd := &cobra.Command{
		Use:   "inspect [flags] >PLATFORM_FILE.yml",
		Short: "Write a platform file describing a Python environment",
		Long: "Run a Python interpreter, and write out the list of tags that it supports, " +
			"for consumption by `pydist flat-index --platform-file=`.  The interpreter " +
			"must have the \"packaging\" library installed.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			info, err := pyinspect.Dynamic(ctx, interpreter)
			if err != nil {
				return err
			}
			dlog.Infof(ctx, "Python %s supports %d tags", info.VersionInfo, len(info.Tags))

			bs, err := yaml.Marshal(info.Platform())
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(bs); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&interpreter, "interpreter", "python3",
		"The Python interpreter to inspect")

	argparser.AddCommand(cmd)
}
