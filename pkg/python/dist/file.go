// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"github.com/datawire/pydist/pkg/python/pep440"
)

// File is what a repository listing says about a single distribution file.
type File struct {
	Filename string
	URL      string
	// Hashes are the digests that the listing claims for the file; possibly empty.
	Hashes []HashDigest
	// RequiresPython is nil if the listing did not say.
	RequiresPython pep440.Specifier
	Yanked         bool
	YankedReason   string
}

// Entry is a File along with its parsed filename and the index that it was found in.
type Entry struct {
	File     File
	Filename Filename
	Index    string
}

// Entries is a batch of discovered entries.
type Entries struct {
	Entries []Entry
	// Offline is true if any location that should have contributed to the batch could not be
	// reached.
	Offline bool
}
