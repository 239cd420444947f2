// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package python

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/datawire/pydist/pkg/python/pep425"
)

// Platform describes the Python installation that distributions are being selected for.
//
// A platform file is YAML:
//
//     tags:
//       - cp39-cp39-manylinux_2_17_x86_64
//       - cp39-abi3-manylinux_2_17_x86_64
//       - py3-none-any
//
// To get the tag list for a live Python install, use the command:
//
//     python -c $'import packaging.tags\nfor tag in packaging.tags.sys_tags(): print(tag)'
type Platform struct {
	// Tags is ordered from most-preferred to least-preferred.
	Tags []pep425.Tag `json:"tags"`
}

// ParsePlatform decodes a platform file, rejecting unknown fields.
func ParsePlatform(content []byte) (*Platform, error) {
	var plat Platform
	if err := yaml.UnmarshalStrict(content, &plat); err != nil {
		return nil, fmt.Errorf("python.ParsePlatform: %w", err)
	}
	if len(plat.Tags) == 0 {
		return nil, fmt.Errorf("python.ParsePlatform: platform does not list any tags")
	}
	return &plat, nil
}

// ReadPlatformFile reads and decodes the platform file at 'filename'.
func ReadPlatformFile(filename string) (*Platform, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	plat, err := ParsePlatform(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return plat, nil
}

// TagTable returns the platform's tag preference table.
func (plat *Platform) TagTable() *pep425.Tags {
	return pep425.NewTags(plat.Tags)
}
