// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep427 implements the filename convention of PEP 427 -- The Wheel Binary Package
// Format 1.0.
//
// https://www.python.org/dev/peps/pep-0427/
package pep427

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/datawire/pydist/pkg/python/pep425"
	"github.com/datawire/pydist/pkg/python/pep440"
	"github.com/datawire/pydist/pkg/python/pep503"
)

// FileNameData is the information encoded in a wheel's filename:
//
//     {distribution}-{version}(-{build tag})?-{python tag}-{abi tag}-{platform tag}.whl
type FileNameData struct {
	Distribution     string
	Version          pep440.Version
	BuildTag         *BuildTag
	CompatibilityTag pep425.Tag
}

var reFilename = regexp.MustCompile(regexp.MustCompile(`\s+`).ReplaceAllString(`
		^(?P<distribution>[^-]+)
		-(?P<version>[^-]+)
		(?:-(?P<build_n>[0-9]+)(?P<build_l>[^-0-9][^-]*)?)?
		-(?P<python>[^-]+)
		-(?P<abi>[^-]+)
		-(?P<platform>[^-]+)
		\.whl$`, ``))

var reSeparatorRun = regexp.MustCompile(`[-_.]+`)

func ParseFilename(filename string) (*FileNameData, error) {
	match := reFilename.FindStringSubmatch(filename)
	if match == nil {
		return nil, fmt.Errorf("pep427.ParseFilename: invalid wheel filename: %q", filename)
	}
	group := func(name string) string {
		return match[reFilename.SubexpIndex(name)]
	}

	var ret FileNameData

	ret.Distribution = group("distribution")
	if err := pep503.ValidateName(ret.Distribution); err != nil {
		return nil, fmt.Errorf("pep427.ParseFilename: invalid wheel filename: %q: %w", filename, err)
	}

	ver, err := pep440.ParseVersion(group("version"))
	if err != nil {
		return nil, fmt.Errorf("pep427.ParseFilename: invalid wheel filename: %q: %w", filename, err)
	}
	ret.Version = *ver

	if buildN := group("build_n"); buildN != "" {
		n, err := strconv.Atoi(buildN)
		if err != nil {
			return nil, fmt.Errorf("pep427.ParseFilename: invalid wheel filename: %q: build tag: %w", filename, err)
		}
		ret.BuildTag = &BuildTag{
			Int: n,
			Str: group("build_l"),
		}
	}

	ret.CompatibilityTag, err = pep425.ParseTag(group("python") + "-" + group("abi") + "-" + group("platform"))
	if err != nil {
		return nil, fmt.Errorf("pep427.ParseFilename: invalid wheel filename: %q: %w", filename, err)
	}

	return &ret, nil
}

// Name returns the normalized project name.
func (data FileNameData) Name() string {
	return pep503.NormalizeName(data.Distribution)
}

// Tags returns the decompressed set of tags that the wheel is compatible with.
func (data FileNameData) Tags() []pep425.Tag {
	return data.CompatibilityTag.Decompress()
}

// String generates a filename for the data: the distribution name has runs of "-_." replaced
// with "_", and the version is normalized.
func (data FileNameData) String() string {
	var ret strings.Builder
	ret.WriteString(reSeparatorRun.ReplaceAllLiteralString(data.Distribution, "_"))
	ret.WriteString("-")
	ret.WriteString(data.Version.String())
	if data.BuildTag != nil {
		ret.WriteString("-")
		ret.WriteString(data.BuildTag.String())
	}
	ret.WriteString("-")
	ret.WriteString(data.CompatibilityTag.String())
	ret.WriteString(".whl")
	return ret.String()
}

// BuildTag is an optional wheel revision marker: a number, optionally followed by a string.  It
// acts only as a tie-breaker between otherwise-identical wheels.
type BuildTag struct {
	Int int
	Str string
}

func (t BuildTag) String() string {
	return fmt.Sprintf("%d%s", t.Int, t.Str)
}

// Cmp compares build tags numerically, then lexically.  The absence of a build tag (nil) sorts
// before any build tag.
func (a *BuildTag) Cmp(b *BuildTag) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil && b != nil:
		return -1
	case a != nil && b == nil:
		return 1
	}
	switch {
	case a.Int < b.Int:
		return -1
	case a.Int > b.Int:
		return 1
	}
	return strings.Compare(a.Str, b.Str)
}
