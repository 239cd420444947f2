// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package flatindex selects, for each version of each package found in a set of flat
// ("--find-links") locations, the best wheel and the best source distribution for the current
// platform and policies.
//
// A FlatIndex is built once and then only read; it is safe for concurrent use by multiple
// readers.
package flatindex

import (
	"context"
	"sort"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/pydist/pkg/python/dist"
	"github.com/datawire/pydist/pkg/python/pep425"
	"github.com/datawire/pydist/pkg/python/pep503"
)

// FlatIndex is the set of FlatDistributions from a batch of entries, by normalized package name.
type FlatIndex struct {
	index   map[string]*FlatDistributions
	offline bool
}

// FromEntries groups the entries by package name, and classifies each group in arrival order
// (see DistributionsFromEntries).  A nil 'tags' accepts wheels for any platform.
func FromEntries(
	ctx context.Context,
	entries dist.Entries,
	tags *pep425.Tags,
	hasher dist.HashStrategy,
	buildOptions dist.BuildOptions,
) *FlatIndex {
	var names []string
	groups := make(map[string][]dist.Entry)
	for _, entry := range entries.Entries {
		if entry.Filename == nil {
			dlog.Debugf(ctx, "flatindex: skipping entry without a parsed filename: %q", entry.File.Filename)
			continue
		}
		name := entry.Filename.Name()
		if _, seen := groups[name]; !seen {
			names = append(names, name)
		}
		groups[name] = append(groups[name], entry)
	}

	index := make(map[string]*FlatDistributions, len(groups))
	for _, name := range names {
		index[name] = DistributionsFromEntries(ctx, groups[name], tags, hasher, buildOptions)
	}
	dlog.Debugf(ctx, "flatindex: indexed %d entries for %d packages (offline=%v)",
		len(entries.Entries), len(index), entries.Offline)

	return &FlatIndex{
		index:   index,
		offline: entries.Offline,
	}
}

// Get returns the FlatDistributions for a package.  The name need not be normalized.
func (idx *FlatIndex) Get(name string) (*FlatDistributions, bool) {
	dists, ok := idx.index[pep503.NormalizeName(name)]
	return dists, ok
}

// Offline returns whether any of the locations that the entries came from could not be reached.
func (idx *FlatIndex) Offline() bool {
	return idx.offline
}

// Packages returns the sorted list of normalized package names.
func (idx *FlatIndex) Packages() []string {
	ret := make([]string, 0, len(idx.index))
	for name := range idx.index {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
