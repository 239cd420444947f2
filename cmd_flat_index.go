// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/datawire/dlib/dlog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/datawire/pydist/pkg/cliutil"
	"github.com/datawire/pydist/pkg/python"
	"github.com/datawire/pydist/pkg/python/dist"
	"github.com/datawire/pydist/pkg/python/findlinks"
	"github.com/datawire/pydist/pkg/python/flatindex"
	"github.com/datawire/pydist/pkg/python/pep425"
	"github.com/datawire/pydist/pkg/python/pep440"
)

type fileOutput struct {
	Filename       string   `yaml:"filename"`
	URL            string   `yaml:"url"`
	Index          string   `yaml:"index"`
	Hashes         []string `yaml:"hashes,omitempty"`
	RequiresPython string   `yaml:"requires-python,omitempty"`
	Yanked         string   `yaml:"yanked,omitempty"`
	Verdict        string   `yaml:"verdict"`
}

type versionOutput struct {
	Version string      `yaml:"version"`
	Wheel   *fileOutput `yaml:"wheel,omitempty"`
	Source  *fileOutput `yaml:"source,omitempty"`
}

type flatIndexOutput struct {
	Offline  bool                       `yaml:"offline"`
	Packages map[string][]versionOutput `yaml:"packages"`
}

func newFileOutput(file dist.File, index, verdict string) *fileOutput {
	ret := &fileOutput{
		Filename: file.Filename,
		URL:      file.URL,
		Index:    index,
		Verdict:  verdict,
	}
	for _, hash := range file.Hashes {
		ret.Hashes = append(ret.Hashes, hash.String())
	}
	if file.RequiresPython != nil {
		ret.RequiresPython = file.RequiresPython.String()
	}
	if file.Yanked {
		ret.Yanked = file.YankedReason
		if ret.Yanked == "" {
			ret.Yanked = "yanked"
		}
	}
	return ret
}

// flatIndexReport summarizes the index; if 'packages' is non-empty, only those packages are
// included.
func flatIndexReport(idx *flatindex.FlatIndex, packages []string) flatIndexOutput {
	if len(packages) == 0 {
		packages = idx.Packages()
	}
	ret := flatIndexOutput{
		Offline:  idx.Offline(),
		Packages: make(map[string][]versionOutput, len(packages)),
	}
	for _, name := range packages {
		versions := []versionOutput{}
		if dists, ok := idx.Get(name); ok {
			dists.Iter(func(ver pep440.Version, prio *dist.PrioritizedDist) bool {
				out := versionOutput{Version: ver.String()}
				if prio.Wheel != nil {
					out.Wheel = newFileOutput(prio.Wheel.File, prio.Wheel.Index, prio.Wheel.Compatibility.String())
				}
				if prio.Source != nil {
					out.Source = newFileOutput(prio.Source.File, prio.Source.Index, prio.Source.Compatibility.String())
				}
				versions = append(versions, out)
				return true
			})
		}
		ret.Packages[name] = versions
	}
	return ret
}

func init() {
	var flags struct {
		PlatformFile  string
		RequireHashes string
		PipConfig     string
		Packages      []string
		BuildOptions  dist.BuildOptions
	}
	cmd := &cobra.Command{
		Use:   "flat-index [flags] [LOCATIONS...] >OUT_REPORT.yml",
		Short: "Classify the distributions found in find-links locations",
		Long: "Read each find-links location (a directory of distribution files, or a " +
			"saved HTML index page), and report the best wheel and the best source " +
			"distribution of every version of every package found." +
			"\n\n" +
			"Wheels are judged against the tags listed in the --platform-file; without " +
			"one, wheels for any platform are accepted.  The platform file is YAML:" +
			"\n\n" +
			"    tags:\n" +
			"      - cp39-cp39-manylinux_2_17_x86_64\n" +
			"      - cp39-abi3-manylinux_2_17_x86_64\n" +
			"      - py3-none-any\n" +
			"\n" +
			"If a version has no usable file of a kind, the report shows the most nearly " +
			"usable one and why it was rejected.  Locations that cannot be read are " +
			"skipped, and the report is marked offline.",
		Args: cliutil.WrapPositionalArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			locations := args
			if flags.PipConfig != "" {
				pipConf, err := python.ReadPipConfigFile(flags.PipConfig)
				if err != nil {
					return err
				}
				locations = append(append([]string(nil), pipConf.FindLinks...), locations...)
				// Command-line flags take precedence over the config file.
				for _, opt := range []struct {
					name  string
					dst   *dist.PackageSet
					names []string
				}{
					{"no-binary", &flags.BuildOptions.NoBinary, pipConf.NoBinary},
					{"no-build", &flags.BuildOptions.NoBuild, pipConf.NoBuild},
				} {
					if cmd.Flags().Changed(opt.name) {
						continue
					}
					for _, name := range opt.names {
						if err := opt.dst.Set(name); err != nil {
							return fmt.Errorf("%s: %s: %w", flags.PipConfig, opt.name, err)
						}
					}
				}
			}
			if len(locations) == 0 {
				return cliutil.FlagErrorFunc(cmd, fmt.Errorf("no find-links locations given"))
			}

			var tags *pep425.Tags
			if flags.PlatformFile != "" {
				plat, err := python.ReadPlatformFile(flags.PlatformFile)
				if err != nil {
					return err
				}
				tags = plat.TagTable()
			}

			var hasher dist.HashStrategy = dist.NoHashes{}
			if flags.RequireHashes != "" {
				fh, err := os.Open(flags.RequireHashes)
				if err != nil {
					return err
				}
				hashes, err := dist.ParseRequiredHashes(fh)
				_ = fh.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", flags.RequireHashes, err)
				}
				hasher = hashes
			}

			entries := findlinks.Collect(ctx, locations...)
			if entries.Offline {
				dlog.Warnln(ctx, "some find-links locations could not be read; results may be incomplete")
			}
			idx := flatindex.FromEntries(ctx, entries, tags, hasher, flags.BuildOptions)

			bs, err := yaml.Marshal(flatIndexReport(idx, flags.Packages))
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(bs); err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.PlatformFile, "platform-file", "",
		"Judge wheels against the tags listed in `PLATFORM_FILE`")
	cmd.Flags().StringVar(&flags.RequireHashes, "require-hashes", "",
		"Require that files match the pinned hashes in `REQUIREMENTS_FILE`")
	cmd.Flags().StringVar(&flags.PipConfig, "pip-config", "",
		"Read find-links locations and build options from the [global] section of `PIP_CONF`")
	cmd.Flags().StringSliceVar(&flags.Packages, "package", nil,
		"Only report on the package `NAME` (may be given more than once)")
	cmd.Flags().Var(&flags.BuildOptions.NoBinary, "no-binary",
		"Do not use wheels for these packages (a comma-separated list, or :all: or :none:)")
	cmd.Flags().Var(&flags.BuildOptions.NoBuild, "no-build",
		"Do not use source distributions for these packages (a comma-separated list, or :all: or :none:)")

	argparser.AddCommand(cmd)
}
