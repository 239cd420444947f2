// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package dist holds the value types shared by everything that deals in distribution files:
// what a file is called, what is known about it, and how well it suits the current install.
package dist

import (
	"fmt"
	"strings"

	"github.com/datawire/pydist/pkg/python/pep427"
	"github.com/datawire/pydist/pkg/python/pep440"
	"github.com/datawire/pydist/pkg/python/pep625"
)

// Filename is a parsed distribution filename: either a *WheelFilename or a *SourceFilename.
// No other implementations exist.
type Filename interface {
	// Name returns the normalized project name.
	Name() string
	String() string

	isFilename()
}

// WheelFilename is the filename of a built distribution.
type WheelFilename struct {
	pep427.FileNameData
}

// SourceFilename is the filename of a source distribution.
type SourceFilename struct {
	pep625.FileNameData
}

func (*WheelFilename) isFilename()  {}
func (*SourceFilename) isFilename() {}

// ParseFilename parses 'filename' as a wheel if it ends with ".whl", and as a source
// distribution otherwise.
func ParseFilename(filename string) (Filename, error) {
	if strings.HasSuffix(filename, ".whl") {
		data, err := pep427.ParseFilename(filename)
		if err != nil {
			return nil, fmt.Errorf("dist.ParseFilename: %w", err)
		}
		return &WheelFilename{FileNameData: *data}, nil
	}
	data, err := pep625.ParseFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("dist.ParseFilename: %w", err)
	}
	return &SourceFilename{FileNameData: *data}, nil
}

// FilenameVersion returns the version encoded in a filename.
func FilenameVersion(filename Filename) pep440.Version {
	switch filename := filename.(type) {
	case *WheelFilename:
		return filename.Version
	case *SourceFilename:
		return filename.Version
	default:
		panic(fmt.Errorf("dist.FilenameVersion: unexpected Filename type: %T", filename))
	}
}
