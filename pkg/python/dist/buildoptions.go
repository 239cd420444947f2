// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"fmt"
	"sort"
	"strings"

	"github.com/datawire/pydist/pkg/python/pep503"
)

// PackageSet is a set of package names, or "all packages".  It has pip's "--no-binary" flag
// semantics: ":all:" selects every package, ":none:" clears the set, and anything else is a
// comma-separated list of names to add.
//
// *PackageSet implements pflag.Value.
type PackageSet struct {
	All      bool
	Packages map[string]struct{}
}

// NewPackageSet returns a set containing the given (not necessarily normalized) names.
func NewPackageSet(names ...string) PackageSet {
	var ret PackageSet
	for _, name := range names {
		ret.add(name)
	}
	return ret
}

func (s *PackageSet) add(name string) {
	if s.Packages == nil {
		s.Packages = make(map[string]struct{})
	}
	s.Packages[pep503.NormalizeName(name)] = struct{}{}
}

// Contains returns whether the set contains the package 'name'.
func (s PackageSet) Contains(name string) bool {
	if s.All {
		return true
	}
	_, ok := s.Packages[pep503.NormalizeName(name)]
	return ok
}

// Set implements pflag.Value.
func (s *PackageSet) Set(str string) error {
	for _, name := range strings.Split(str, ",") {
		switch name = strings.TrimSpace(name); name {
		case "":
		case ":all:":
			s.All = true
			s.Packages = nil
		case ":none:":
			s.All = false
			s.Packages = nil
		default:
			if err := pep503.ValidateName(name); err != nil {
				return fmt.Errorf("dist.PackageSet.Set: %w", err)
			}
			s.add(name)
		}
	}
	return nil
}

// String implements pflag.Value.
func (s *PackageSet) String() string {
	switch {
	case s.All:
		return ":all:"
	case len(s.Packages) == 0:
		return ":none:"
	}
	names := make([]string, 0, len(s.Packages))
	for name := range s.Packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Type implements pflag.Value.
func (*PackageSet) Type() string {
	return "packages"
}

// BuildOptions restricts which kinds of distribution may be used for a package.
type BuildOptions struct {
	// NoBinary packages may not be installed from wheels.
	NoBinary PackageSet
	// NoBuild packages may not be built from source distributions.
	NoBuild PackageSet
}

// NoBinaryPackage returns whether wheels are disallowed for the package 'name'.
func (o BuildOptions) NoBinaryPackage(name string) bool {
	return o.NoBinary.Contains(name)
}

// NoBuildPackage returns whether source distributions are disallowed for the package 'name'.
func (o BuildOptions) NoBuildPackage(name string) bool {
	return o.NoBuild.Contains(name)
}
