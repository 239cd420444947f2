// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"fmt"

	"github.com/datawire/pydist/pkg/python/pep425"
	"github.com/datawire/pydist/pkg/python/pep427"
)

// IncompatibleWheel says why a wheel may not be used.  Greater values are "closer" to being
// usable, and are retained in preference to lesser values when reporting why no wheel was
// selected.
type IncompatibleWheel int

const (
	IncompatibleWheelNone IncompatibleWheel = iota
	IncompatibleWheelNoBinary
	IncompatibleWheelPython
	IncompatibleWheelABI
	IncompatibleWheelPlatform
)

// IncompatibleWheelTag maps a tag mismatch to the corresponding IncompatibleWheel.
func IncompatibleWheelTag(tag pep425.IncompatibleTag) IncompatibleWheel {
	switch tag {
	case pep425.IncompatibleNone:
		return IncompatibleWheelNone
	case pep425.IncompatiblePython:
		return IncompatibleWheelPython
	case pep425.IncompatibleABI:
		return IncompatibleWheelABI
	case pep425.IncompatiblePlatform:
		return IncompatibleWheelPlatform
	default:
		panic(fmt.Errorf("invalid pep425.IncompatibleTag: %d", int(tag)))
	}
}

func (r IncompatibleWheel) String() string {
	switch r {
	case IncompatibleWheelNone:
		return "compatible"
	case IncompatibleWheelNoBinary:
		return "no-binary"
	case IncompatibleWheelPython:
		return "python tag mismatch"
	case IncompatibleWheelABI:
		return "abi tag mismatch"
	case IncompatibleWheelPlatform:
		return "platform tag mismatch"
	default:
		panic(fmt.Errorf("invalid IncompatibleWheel: %d", int(r)))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r IncompatibleWheel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// WheelCompatibility is the verdict on a single wheel file.
type WheelCompatibility struct {
	// Incompatible is IncompatibleWheelNone for usable wheels; the other fields are only
	// meaningful for usable wheels.
	Incompatible IncompatibleWheel
	Hash         HashComparison
	// Preference is the wheel's rank in the tag preference table (1 is most preferred), or 0
	// if there was no table.
	Preference int
	BuildTag   *pep427.BuildTag
}

func (c WheelCompatibility) IsCompatible() bool {
	return c.Incompatible == IncompatibleWheelNone
}

// cmpPreference orders "unordered" (0) below every table rank, and lower ranks above higher
// ranks.
func cmpPreference(a, b int) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return -1
	case b == 0:
		return 1
	case a < b:
		return 1
	default:
		return -1
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Cmp returns >0 if 'a' is a better wheel than 'b', <0 if it is worse, and 0 if the verdicts do
// not distinguish them.  Compatible wheels are ranked by hash outcome, then tag preference, then
// build tag.  Any compatible wheel is better than any incompatible wheel.
func (a WheelCompatibility) Cmp(b WheelCompatibility) int {
	switch {
	case a.IsCompatible() && !b.IsCompatible():
		return 1
	case !a.IsCompatible() && b.IsCompatible():
		return -1
	case !a.IsCompatible() && !b.IsCompatible():
		return cmpInt(int(a.Incompatible), int(b.Incompatible))
	}
	if d := cmpInt(int(a.Hash), int(b.Hash)); d != 0 {
		return d
	}
	if d := cmpPreference(a.Preference, b.Preference); d != 0 {
		return d
	}
	return a.BuildTag.Cmp(b.BuildTag)
}

// IsMoreCompatible returns whether 'a' is strictly better than 'b'.
func (a WheelCompatibility) IsMoreCompatible(b WheelCompatibility) bool {
	return a.Cmp(b) > 0
}

func (c WheelCompatibility) String() string {
	if !c.IsCompatible() {
		return "incompatible: " + c.Incompatible.String()
	}
	pref := "unordered"
	if c.Preference > 0 {
		pref = fmt.Sprintf("tag preference %d", c.Preference)
	}
	ret := fmt.Sprintf("compatible: hash %s, %s", c.Hash, pref)
	if c.BuildTag != nil {
		ret += ", build " + c.BuildTag.String()
	}
	return ret
}

// IncompatibleSource says why a source distribution may not be used.
type IncompatibleSource int

const (
	IncompatibleSourceNone IncompatibleSource = iota
	IncompatibleSourceNoBuild
)

func (r IncompatibleSource) String() string {
	switch r {
	case IncompatibleSourceNone:
		return "compatible"
	case IncompatibleSourceNoBuild:
		return "no-build"
	default:
		panic(fmt.Errorf("invalid IncompatibleSource: %d", int(r)))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r IncompatibleSource) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// SourceDistCompatibility is the verdict on a single source distribution file.
type SourceDistCompatibility struct {
	Incompatible IncompatibleSource
	Hash         HashComparison
}

func (c SourceDistCompatibility) IsCompatible() bool {
	return c.Incompatible == IncompatibleSourceNone
}

// Cmp is like WheelCompatibility.Cmp; compatible source distributions are ranked by hash
// outcome alone.
func (a SourceDistCompatibility) Cmp(b SourceDistCompatibility) int {
	switch {
	case a.IsCompatible() && !b.IsCompatible():
		return 1
	case !a.IsCompatible() && b.IsCompatible():
		return -1
	case !a.IsCompatible() && !b.IsCompatible():
		return cmpInt(int(a.Incompatible), int(b.Incompatible))
	}
	return cmpInt(int(a.Hash), int(b.Hash))
}

// IsMoreCompatible returns whether 'a' is strictly better than 'b'.
func (a SourceDistCompatibility) IsMoreCompatible(b SourceDistCompatibility) bool {
	return a.Cmp(b) > 0
}

func (c SourceDistCompatibility) String() string {
	if !c.IsCompatible() {
		return "incompatible: " + c.Incompatible.String()
	}
	return fmt.Sprintf("compatible: hash %s", c.Hash)
}
