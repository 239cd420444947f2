// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package python

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PipConfig is the subset of a pip.conf file that concerns selecting distributions from
// find-links locations.
type PipConfig struct {
	FindLinks []string
	NoBinary  []string
	NoBuild   []string
}

// pip accepts both "find-links" and "find_links", in any case.
func pipOptionTransform(option string) string {
	return strings.ReplaceAll(strings.ToLower(option), "_", "-")
}

// ParsePipConfig reads the "[global]" section of a pip.conf file.  Multi-valued options may be
// split across lines or separated by whitespace or commas.
func ParsePipConfig(r io.Reader) (*PipConfig, error) {
	parser := NewConfigParser()
	parser.OptionTransform = pipOptionTransform
	config, err := parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("python.ParsePipConfig: %w", err)
	}

	var ret PipConfig
	for _, opt := range []struct {
		name string
		dst  *[]string
	}{
		{"find-links", &ret.FindLinks},
		{"no-binary", &ret.NoBinary},
		{"no-build", &ret.NoBuild},
	} {
		if val, ok := config.Get("global", opt.name); ok {
			*opt.dst = strings.FieldsFunc(val, func(r rune) bool {
				return r == ',' || r == ' ' || r == '\t' || r == '\n'
			})
		}
	}
	return &ret, nil
}

// ReadPipConfigFile reads the pip.conf file at 'filename'.
func ReadPipConfigFile(filename string) (*PipConfig, error) {
	fh, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return ParsePipConfig(fh)
}
