// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package flatindex

import (
	"github.com/datawire/pydist/pkg/python/dist"
	"github.com/datawire/pydist/pkg/python/pep425"
)

func wheelCompatibility(
	filename *dist.WheelFilename,
	hashes []dist.HashDigest,
	tags *pep425.Tags,
	hasher dist.HashStrategy,
	buildOptions dist.BuildOptions,
) dist.WheelCompatibility {
	if buildOptions.NoBinaryPackage(filename.Name()) {
		return dist.WheelCompatibility{Incompatible: dist.IncompatibleWheelNoBinary}
	}

	// Without a tag table, every wheel is acceptable, in no particular order.
	var preference int
	if tags != nil {
		tagCompat := tags.Compatibility(filename.Tags())
		if !tagCompat.IsCompatible() {
			return dist.WheelCompatibility{Incompatible: dist.IncompatibleWheelTag(tagCompat.Incompatible)}
		}
		preference = tagCompat.Preference
	}

	return dist.WheelCompatibility{
		Hash:       hasher.GetPackage(filename.Name(), filename.Version).Compare(hashes),
		Preference: preference,
		BuildTag:   filename.BuildTag,
	}
}

func sourceDistCompatibility(
	filename *dist.SourceFilename,
	hashes []dist.HashDigest,
	hasher dist.HashStrategy,
	buildOptions dist.BuildOptions,
) dist.SourceDistCompatibility {
	if buildOptions.NoBuildPackage(filename.Name()) {
		return dist.SourceDistCompatibility{Incompatible: dist.IncompatibleSourceNoBuild}
	}
	return dist.SourceDistCompatibility{
		Hash: hasher.GetPackage(filename.Name(), filename.Version).Compare(hashes),
	}
}
