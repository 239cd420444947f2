// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep625 implements the filename convention of PEP 625 -- Filename of a Source
// Distribution, extended to the legacy archive formats that find-links pages still carry.
//
// https://peps.python.org/pep-0625/
package pep625

import (
	"fmt"
	"strings"

	"github.com/datawire/pydist/pkg/python/pep440"
	"github.com/datawire/pydist/pkg/python/pep503"
)

// Extension is the archive format of a source distribution.
type Extension string

const (
	ExtTarGz   Extension = ".tar.gz"
	ExtZip     Extension = ".zip"
	ExtTarBz2  Extension = ".tar.bz2"
	ExtTarXz   Extension = ".tar.xz"
	ExtTarZst  Extension = ".tar.zst"
	ExtTarLzma Extension = ".tar.lzma"
	ExtTgz     Extension = ".tgz"
	ExtTbz     Extension = ".tbz"
	ExtTxz     Extension = ".txz"
)

// Extensions lists every recognized extension.  No entry is a suffix of a later entry, so the
// first match wins.
var Extensions = []Extension{
	ExtTarGz,
	ExtZip,
	ExtTarBz2,
	ExtTarXz,
	ExtTarZst,
	ExtTarLzma,
	ExtTgz,
	ExtTbz,
	ExtTxz,
}

// FromFilename returns the extension that 'filename' ends with.
func FromFilename(filename string) (Extension, bool) {
	for _, ext := range Extensions {
		if strings.HasSuffix(filename, string(ext)) {
			return ext, true
		}
	}
	return "", false
}

// FileNameData is the information encoded in a source distribution's filename:
//
//     {name}-{version}{extension}
type FileNameData struct {
	Distribution string
	Version      pep440.Version
	Extension    Extension
}

// ParseFilename parses a source distribution filename.  The name/version boundary is the last
// "-" in the stem, since normalized versions never contain a "-".
func ParseFilename(filename string) (*FileNameData, error) {
	ext, ok := FromFilename(filename)
	if !ok {
		return nil, fmt.Errorf("pep625.ParseFilename: invalid source distribution filename: %q: unrecognized extension", filename)
	}
	stem := strings.TrimSuffix(filename, string(ext))
	sep := strings.LastIndexByte(stem, '-')
	if sep < 0 {
		return nil, fmt.Errorf("pep625.ParseFilename: invalid source distribution filename: %q: missing version", filename)
	}

	ret := FileNameData{
		Distribution: stem[:sep],
		Extension:    ext,
	}
	if err := pep503.ValidateName(ret.Distribution); err != nil {
		return nil, fmt.Errorf("pep625.ParseFilename: invalid source distribution filename: %q: %w", filename, err)
	}
	ver, err := pep440.ParseVersion(stem[sep+1:])
	if err != nil {
		return nil, fmt.Errorf("pep625.ParseFilename: invalid source distribution filename: %q: %w", filename, err)
	}
	ret.Version = *ver

	return &ret, nil
}

// Name returns the normalized project name.
func (data FileNameData) Name() string {
	return pep503.NormalizeName(data.Distribution)
}

func (data FileNameData) String() string {
	return data.Distribution + "-" + data.Version.String() + string(data.Extension)
}
