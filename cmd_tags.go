// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datawire/pydist/pkg/cliutil"
	"github.com/datawire/pydist/pkg/python"
)

func init() {
	var platFile string
	cmd := &cobra.Command{
		Use:   "tags [flags] --platform-file=PLATFORM_FILE",
		Short: "Print a platform's tag preference table",
		Long: "Print the decompressed tags of a platform file, one per line, most " +
			"preferred first; each is preceded by its preference rank.",
		Args: cliutil.WrapPositionalArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if platFile == "" {
				return cliutil.FlagErrorFunc(cmd, fmt.Errorf("--platform-file is required"))
			}
			plat, err := python.ReadPlatformFile(platFile)
			if err != nil {
				return err
			}
			for i, tag := range plat.TagTable().List() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, tag); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&platFile, "platform-file", "",
		"Read the supported tags from `PLATFORM_FILE`")

	argparser.AddCommand(cmd)
}
