// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/datawire/pydist/pkg/cliutil"
	"github.com/datawire/pydist/pkg/python/pep621"
)

type requiresDistOutput struct {
	Name           string   `yaml:"name"`
	Dynamic        bool     `yaml:"dynamic-version"`
	RequiresDist   []string `yaml:"requires-dist"`
	ProvidesExtras []string `yaml:"provides-extras"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "requires-dist [flags] PYPROJECT.toml >OUT_METADATA.yml",
		Short: "Extract the static requirements from a pyproject.toml",
		Long: "Read the [project] table of a pyproject.toml file, and print the package's " +
			"Requires-Dist and Provides-Extra metadata, without running the build backend." +
			"\n\n" +
			"This fails if the requirements cannot be known statically: if the [project] " +
			"table or its name is missing, if the dependencies are declared dynamic, or if " +
			"the project declares its dependencies with legacy Poetry syntax.",
		Args: cliutil.WrapPositionalArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rd, err := pep621.ParseRequiresDist(string(content))
			if err != nil {
				if errors.Is(err, pep621.ErrUnusableMetadata) {
					dlog.Debugf(ctx, "%s: %v", args[0], err)
					return fmt.Errorf("%s: static metadata is unusable: %w", args[0], err)
				}
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := requiresDistOutput{
				Name:           rd.Name,
				Dynamic:        rd.Dynamic,
				RequiresDist:   []string{},
				ProvidesExtras: []string{},
			}
			for _, req := range rd.RequiresDist {
				out.RequiresDist = append(out.RequiresDist, req.String())
			}
			out.ProvidesExtras = append(out.ProvidesExtras, rd.ProvidesExtras...)

			bs, err := yaml.Marshal(out)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(bs); err != nil {
				return err
			}
			return nil
		},
	}

	argparser.AddCommand(cmd)
}
