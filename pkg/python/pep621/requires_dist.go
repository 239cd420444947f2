// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep621 implements extraction of a package's requirements from the [project] table of
// pyproject.toml, per PEP 621 -- Storing project metadata in pyproject.toml.
//
// https://peps.python.org/pep-0621/
package pep621

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/datawire/pydist/pkg/python/pep503"
	"github.com/datawire/pydist/pkg/python/pep508"
)

// RequiresDist is the requirement information of a package, as in the core metadata fields
// "Requires-Dist" and "Provides-Extra".
type RequiresDist struct {
	// Name is normalized.
	Name string
	// RequiresDist has the unconditional requirements first, then the requirements of each
	// extra (each with an 'extra == "{name}"' marker).
	RequiresDist []pep508.Requirement
	// ProvidesExtras are normalized extra names, in the order that they are declared.
	ProvidesExtras []string
	// Dynamic is true if the version is computed by the build backend.
	Dynamic bool
}

type pyProjectToml struct {
	Project struct {
		Name                 string              `toml:"name"`
		Dynamic              []string            `toml:"dynamic"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

// ParseRequiresDist extracts the requirements from the contents of a pyproject.toml file.  It
// returns an error if they cannot be determined without running the build backend; every such
// error matches ErrUnusableMetadata.
func ParseRequiresDist(contents string) (*RequiresDist, error) {
	var pyproject pyProjectToml
	md, err := toml.Decode(contents, &pyproject)
	if err != nil {
		return nil, &ConfigParseError{Err: err}
	}
	if !md.IsDefined("project") {
		return nil, &MissingFieldError{Field: "project"}
	}
	project := pyproject.Project
	if !md.IsDefined("project", "name") {
		return nil, &MissingFieldError{Field: "project.name"}
	}
	if err := pep503.ValidateName(project.Name); err != nil {
		return nil, &ConfigParseError{Err: err}
	}

	ret := &RequiresDist{
		Name: pep503.NormalizeName(project.Name),
	}

	for _, field := range project.Dynamic {
		switch field {
		case "dependencies", "optional-dependencies":
			return nil, &DynamicFieldError{Field: field}
		case "version":
			ret.Dynamic = true
		}
	}

	if !md.IsDefined("project", "dependencies") && md.IsDefined("tool", "poetry") {
		return nil, &LegacyToolSyntaxError{Tool: "poetry"}
	}

	for _, str := range project.Dependencies {
		req, err := pep508.ParseLenientRequirement(str)
		if err != nil {
			return nil, &ConfigParseError{Err: err}
		}
		ret.RequiresDist = append(ret.RequiresDist, req)
	}

	seen := make(map[string]struct{}, len(project.OptionalDependencies))
	for _, group := range groupOrder(md, project.OptionalDependencies) {
		if err := pep503.ValidateName(group); err != nil {
			return nil, &ConfigParseError{Err: err}
		}
		extra := pep503.NormalizeName(group)
		if _, dup := seen[extra]; dup {
			return nil, &ConfigParseError{Err: &duplicateExtraError{Extra: extra}}
		}
		seen[extra] = struct{}{}
		ret.ProvidesExtras = append(ret.ProvidesExtras, extra)

		for _, str := range project.OptionalDependencies[group] {
			req, err := pep508.ParseLenientRequirement(str)
			if err != nil {
				return nil, &ConfigParseError{Err: err}
			}
			ret.RequiresDist = append(ret.RequiresDist, req.WithExtraMarker(extra))
		}
	}

	return ret, nil
}

type duplicateExtraError struct {
	Extra string
}

func (e *duplicateExtraError) Error() string {
	return "project.optional-dependencies: duplicate extra " + e.Extra
}

// groupOrder returns the keys of the optional-dependencies table in the order that they appear
// in the file.
func groupOrder(md toml.MetaData, groups map[string][]string) []string {
	ret := make([]string, 0, len(groups))
	seen := make(map[string]struct{}, len(groups))
	for _, key := range md.Keys() {
		if len(key) != 3 || key[0] != "project" || key[1] != "optional-dependencies" {
			continue
		}
		if _, ok := groups[key[2]]; !ok {
			continue
		}
		if _, dup := seen[key[2]]; dup {
			continue
		}
		seen[key[2]] = struct{}{}
		ret = append(ret, key[2])
	}
	// Anything that the metadata did not account for goes last.
	var rest []string
	for group := range groups {
		if _, ok := seen[group]; !ok {
			rest = append(rest, group)
		}
	}
	sort.Strings(rest)
	return append(ret, rest...)
}
