// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package cliutil_test

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/datawire/pydist/pkg/cliutil"
)

//nolint:paralleltest // can't use .Parallel() with .Setenv()
func TestHelpTemplate(t *testing.T) {
	t.Setenv("COLUMNS", "80")
	noopRunE := func(_ *cobra.Command, _ []string) error {
		return nil
	}
	const (
		short = "Classify the distributions found in find-links locations"
		long  = "Classify the distribution files found in each find-links location against " +
			"a platform's tag table, and print the best wheel and source distribution of " +
			"every version."
	)
	newCmd := func(short, long string) *cobra.Command {
		cmd := &cobra.Command{
			Use:   "flat-index [flags] LOCATION...",
			Args:  cobra.MinimumNArgs(1),
			Short: short,
			Long:  long,
			RunE:  noopRunE,
		}
		cmd.Flags().BoolP("verbose", "v", false, "Log debugging information")
		cmd.Flags().StringP("platform-file", "p", "", "Read the supported tags from `PLATFORM_FILE`, "+
			"a YAML document listing the tags that the target interpreter accepts, most "+
			"preferred first")
		return cmd
	}
	const (
		// 0      1         2         3         4         5         6         7         8
		// 345678901234567890123456789012345678901234567890123456789012345678901234567890
		usageLine = "Usage: flat-index [flags] LOCATION...\n"
		longHelp  = "" +
			"Classify the distribution files found in each find-links location against\n" +
			"a platform's tag table, and print the best wheel and source distribution\n" +
			"of every version.\n"
		flagsHelp = "" +
			"Flags:\n" +
			"  -p, --platform-file PLATFORM_FILE   Read the supported tags from\n" +
			"                                      PLATFORM_FILE, a YAML document\n" +
			"                                      listing the tags that the target\n" +
			"                                      interpreter accepts, most preferred first\n"
	)
	type testcase struct {
		InputCmd     *cobra.Command
		ExpectedHelp string
	}
	testcases := map[string]testcase{
		"basic": {
			InputCmd: newCmd(short, long),
			ExpectedHelp: usageLine +
				short + "\n" +
				"\n" +
				longHelp +
				"\n" +
				flagsHelp +
				"  -v, --verbose                       Log debugging information\n",
		},
		"no-short": {
			InputCmd: newCmd("", long),
			ExpectedHelp: usageLine +
				"\n" +
				longHelp +
				"\n" +
				flagsHelp +
				"  -v, --verbose                       Log debugging information\n",
		},
		"no-long": {
			InputCmd: newCmd(short, ""),
			ExpectedHelp: usageLine +
				short + "\n" +
				"\n" +
				flagsHelp +
				"  -v, --verbose                       Log debugging information\n",
		},
		"subcommand-wrap": {
			InputCmd: func() *cobra.Command {
				cmd := newCmd(short, long)
				cmd.AddCommand(&cobra.Command{
					Use:   "requires-dist [flags] PYPROJECT",
					Args:  cobra.ExactArgs(1),
					Short: "Extract the static requires-dist of a pyproject.toml, including optional dependency groups", //nolint:lll
					RunE:  noopRunE,
				})
				return cmd
			}(),
			ExpectedHelp: usageLine +
				short + "\n" +
				"\n" +
				longHelp +
				"\n" +
				"Available Commands:\n" +
				"  requires-dist   Extract the static requires-dist of a pyproject.toml,\n" +
				"                  including optional dependency groups\n" +
				"\n" +
				flagsHelp +
				"  -v, --verbose                       Log debugging information\n" +
				"\n" +
				"Use \"flat-index [command] --help\" for more information about a command.\n",
		},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			tcData.InputCmd.SetHelpTemplate(cliutil.HelpTemplate)

			var out strings.Builder
			tcData.InputCmd.SetOutput(&out)
			tcData.InputCmd.HelpFunc()(tcData.InputCmd, []string{"--help"})

			assert.Equal(t, tcData.ExpectedHelp, out.String())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()
	const text = "alpha beta gamma delta epsilon"
	assert.Equal(t, text, cliutil.Wrap(0, text))
	assert.Equal(t, "alpha beta\ngamma delta\nepsilon", cliutil.Wrap(20, text))
	assert.Equal(t, "alpha beta gamma\n    delta epsilon", cliutil.WrapIndent(4, 30, text))
	assert.Equal(t, text, cliutil.WrapIndent(4, 8, text))
}
