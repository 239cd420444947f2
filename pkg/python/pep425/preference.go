// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep425

import (
	"fmt"
)

// IncompatibleTag says which part of a wheel's tags an installer could not satisfy.  Larger
// values are "closer" to being compatible: a wheel for the right interpreter and ABI but the
// wrong platform is closer than a wheel for the wrong interpreter.
type IncompatibleTag int

const (
	IncompatibleNone IncompatibleTag = iota
	IncompatiblePython
	IncompatibleABI
	IncompatiblePlatform
)

func (r IncompatibleTag) String() string {
	switch r {
	case IncompatibleNone:
		return "compatible"
	case IncompatiblePython:
		return "python tag mismatch"
	case IncompatibleABI:
		return "abi tag mismatch"
	case IncompatiblePlatform:
		return "platform tag mismatch"
	default:
		panic(fmt.Errorf("invalid IncompatibleTag: %d", int(r)))
	}
}

// TagCompatibility is the verdict of checking a wheel's tags against a Tags table.
type TagCompatibility struct {
	// Preference is in the range [1,Len()] for compatible wheels; lower is more preferred.
	Preference int
	// Incompatible is IncompatibleNone for compatible wheels.
	Incompatible IncompatibleTag
}

func (c TagCompatibility) IsCompatible() bool {
	return c.Incompatible == IncompatibleNone
}

// Tags is the list of tags that an installer supports, ordered from most-preferred to
// least-preferred.
//
// To get this for a live Python install, use the command:
//
//     python -c $'import packaging.tags\nfor tag in packaging.tags.sys_tags(): print(tag)'
//
// A Tags is immutable once constructed, and is safe for concurrent use.
type Tags struct {
	ordered []Tag
	rank    map[Tag]int
	pythons map[string]struct{}
	abis    map[[2]string]struct{}
}

// NewTags builds a preference table from 'tags', most-preferred first.  Compressed tag sets are
// decompressed in place; a tag that appears more than once keeps its first (best) rank.
func NewTags(tags []Tag) *Tags {
	ret := &Tags{
		rank:    make(map[Tag]int),
		pythons: make(map[string]struct{}),
		abis:    make(map[[2]string]struct{}),
	}
	for _, compressed := range tags {
		for _, tag := range compressed.Decompress() {
			if _, dup := ret.rank[tag]; dup {
				continue
			}
			ret.ordered = append(ret.ordered, tag)
			ret.rank[tag] = len(ret.ordered)
			ret.pythons[tag.Python] = struct{}{}
			ret.abis[[2]string{tag.Python, tag.ABI}] = struct{}{}
		}
	}
	return ret
}

// Len returns the number of distinct (decompressed) tags in the table.
func (t *Tags) Len() int {
	return len(t.ordered)
}

// List returns the decompressed tags, most-preferred first.
func (t *Tags) List() []Tag {
	ret := make([]Tag, len(t.ordered))
	copy(ret, t.ordered)
	return ret
}

// Supports returns whether any tag in the (possibly compressed) tag set is in the table.
func (t *Tags) Supports(tags ...Tag) bool {
	return t.Compatibility(tags).IsCompatible()
}

// Compatibility finds the most-preferred entry in the table that any of the wheel's tags
// satisfies.  If there is none, it reports the closest miss.
func (t *Tags) Compatibility(wheelTags []Tag) TagCompatibility {
	best := TagCompatibility{Incompatible: IncompatiblePython}
	for _, compressed := range wheelTags {
		for _, tag := range compressed.Decompress() {
			if rank, ok := t.rank[tag]; ok {
				if best.Incompatible != IncompatibleNone || rank < best.Preference {
					best = TagCompatibility{Preference: rank}
				}
				continue
			}
			if best.Incompatible == IncompatibleNone {
				continue
			}
			if miss := t.closestMiss(tag); miss > best.Incompatible {
				best.Incompatible = miss
			}
		}
	}
	return best
}

func (t *Tags) closestMiss(tag Tag) IncompatibleTag {
	if _, ok := t.pythons[tag.Python]; !ok {
		return IncompatiblePython
	}
	if _, ok := t.abis[[2]string{tag.Python, tag.ABI}]; !ok {
		return IncompatibleABI
	}
	return IncompatiblePlatform
}
