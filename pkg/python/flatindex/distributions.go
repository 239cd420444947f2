// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package flatindex

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"

	"github.com/datawire/pydist/pkg/python/dist"
	"github.com/datawire/pydist/pkg/python/pep425"
	"github.com/datawire/pydist/pkg/python/pep440"
	"github.com/datawire/pydist/pkg/sortedmap"
)

// FlatDistributions is the set of PrioritizedDists for a single package, by version.
type FlatDistributions struct {
	dists *sortedmap.Map[pep440.Version, *dist.PrioritizedDist]
}

func newFlatDistributions() *FlatDistributions {
	return &FlatDistributions{
		dists: sortedmap.New[pep440.Version, *dist.PrioritizedDist](pep440.Version.Cmp),
	}
}

// DistributionsFromEntries classifies every entry and keeps the best of each kind for each
// version.  The entries should all be for the same package.  A nil 'tags' accepts wheels for any
// platform.
func DistributionsFromEntries(
	ctx context.Context,
	entries []dist.Entry,
	tags *pep425.Tags,
	hasher dist.HashStrategy,
	buildOptions dist.BuildOptions,
) *FlatDistributions {
	ret := newFlatDistributions()
	for _, entry := range entries {
		ret.addFile(ctx, entry, tags, hasher, buildOptions)
	}
	return ret
}

func (d *FlatDistributions) addFile(
	ctx context.Context,
	entry dist.Entry,
	tags *pep425.Tags,
	hasher dist.HashStrategy,
	buildOptions dist.BuildOptions,
) {
	// requires-python is not considered here; it is carried along for whoever selects a
	// distribution.
	switch filename := entry.Filename.(type) {
	case *dist.WheelFilename:
		compat := wheelCompatibility(filename, entry.File.Hashes, tags, hasher, buildOptions)
		dlog.Debugf(ctx, "flatindex: %s: %s", entry.File.Filename, compat)
		d.dists.Upsert(filename.Version, func(prio *dist.PrioritizedDist, _ bool) *dist.PrioritizedDist {
			if prio == nil {
				prio = new(dist.PrioritizedDist)
			}
			prio.InsertBuilt(dist.BuiltDist{
				Filename:      filename,
				File:          entry.File,
				Index:         entry.Index,
				Compatibility: compat,
			})
			return prio
		})
	case *dist.SourceFilename:
		compat := sourceDistCompatibility(filename, entry.File.Hashes, hasher, buildOptions)
		dlog.Debugf(ctx, "flatindex: %s: %s", entry.File.Filename, compat)
		d.dists.Upsert(filename.Version, func(prio *dist.PrioritizedDist, _ bool) *dist.PrioritizedDist {
			if prio == nil {
				prio = new(dist.PrioritizedDist)
			}
			prio.InsertSource(dist.SourceDist{
				Filename:      filename,
				File:          entry.File,
				Index:         entry.Index,
				Compatibility: compat,
			})
			return prio
		})
	default:
		panic(fmt.Errorf("flatindex: unexpected dist.Filename type: %T", filename))
	}
}

// Get returns the PrioritizedDist for 'version'.
func (d *FlatDistributions) Get(version pep440.Version) (*dist.PrioritizedDist, bool) {
	return d.dists.Get(version)
}

// Remove deletes the PrioritizedDist for 'version', returning it.  A FlatDistributions obtained
// from a shared FlatIndex should be cloned before removing anything from it.
func (d *FlatDistributions) Remove(version pep440.Version) (*dist.PrioritizedDist, bool) {
	return d.dists.Delete(version)
}

// Clone returns a copy that may be modified with Remove without affecting the original.
func (d *FlatDistributions) Clone() *FlatDistributions {
	return &FlatDistributions{dists: d.dists.Clone()}
}

// Len returns the number of versions.
func (d *FlatDistributions) Len() int {
	return d.dists.Len()
}

// Versions returns the versions in ascending order.
func (d *FlatDistributions) Versions() []pep440.Version {
	return d.dists.Keys()
}

// Iter calls 'fn' for each version in ascending order, stopping early if 'fn' returns false.
func (d *FlatDistributions) Iter(fn func(pep440.Version, *dist.PrioritizedDist) bool) {
	d.dists.Each(fn)
}
