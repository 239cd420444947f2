// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep508 implements PEP 508 -- Dependency specification for Python Software Packages.
//
// https://www.python.org/dev/peps/pep-0508/
package pep508

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/datawire/pydist/pkg/python/pep440"
	"github.com/datawire/pydist/pkg/python/pep503"
)

// Requirement is a single dependency specification, such as
//
//     requests[security] >= 2.8.1, == 2.8.* ; python_version < "2.7"
type Requirement struct {
	// Name is the project name as written.
	Name string
	// Extras are normalized extra names.
	Extras []string
	// At most one of Specifier and URL is set.
	Specifier pep440.Specifier
	URL       string
	// Marker is nil if the requirement is unconditional.
	Marker Marker
}

var reName = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)

// ParseRequirement parses a requirement string, strictly following the PEP 508 grammar.
func ParseRequirement(str string) (Requirement, error) {
	ret, err := parseRequirement(str, false)
	if err != nil {
		return Requirement{}, fmt.Errorf("pep508.ParseRequirement: %q: %w", str, err)
	}
	return ret, nil
}

func parseRequirement(str string, lenient bool) (Requirement, error) {
	var ret Requirement

	rest := strings.TrimSpace(str)
	ret.Name = reName.FindString(rest)
	if ret.Name == "" {
		return Requirement{}, fmt.Errorf("missing or invalid project name")
	}
	rest = strings.TrimLeft(rest[len(ret.Name):], " \t")

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return Requirement{}, fmt.Errorf("unterminated extras list")
		}
		if list := strings.TrimSpace(rest[1:end]); list != "" {
			for _, extra := range strings.Split(list, ",") {
				extra = strings.TrimSpace(extra)
				if reName.FindString(extra) != extra || extra == "" {
					return Requirement{}, fmt.Errorf("invalid extra name: %q", extra)
				}
				ret.Extras = append(ret.Extras, pep503.NormalizeName(extra))
			}
		}
		rest = strings.TrimLeft(rest[end+1:], " \t")
	}

	if strings.HasPrefix(rest, "@") {
		rest = strings.TrimLeft(rest[1:], " \t")
		urlStr := rest
		rest = ""
		if end := strings.IndexAny(urlStr, " \t"); end >= 0 {
			urlStr, rest = urlStr[:end], strings.TrimLeft(urlStr[end:], " \t")
		}
		u, err := url.Parse(urlStr)
		if err != nil {
			return Requirement{}, err
		}
		if u.Scheme == "" {
			return Requirement{}, fmt.Errorf("URL requirement must be an absolute URL: %q", urlStr)
		}
		ret.URL = urlStr
	} else {
		specStr := rest
		rest = ""
		if semi := strings.IndexByte(specStr, ';'); semi >= 0 {
			specStr, rest = specStr[:semi], specStr[semi:]
		}
		specStr = strings.TrimSpace(specStr)
		if strings.HasPrefix(specStr, "(") {
			if !strings.HasSuffix(specStr, ")") {
				return Requirement{}, fmt.Errorf("unterminated version specifier: %q", specStr)
			}
			specStr = strings.TrimSpace(specStr[1 : len(specStr)-1])
		}
		if lenient {
			specStr = fixSpecifier(specStr)
		}
		if specStr != "" {
			for _, clause := range strings.Split(specStr, ",") {
				if strings.TrimSpace(clause) == "" {
					return Requirement{}, fmt.Errorf("empty clause in version specifier: %q", specStr)
				}
			}
			spec, err := pep440.ParseSpecifier(specStr)
			if err != nil {
				return Requirement{}, err
			}
			ret.Specifier = spec
		}
	}

	if rest != "" {
		if !strings.HasPrefix(rest, ";") {
			return Requirement{}, fmt.Errorf("unexpected trailing text: %q", rest)
		}
		marker, err := ParseMarker(rest[1:])
		if err != nil {
			return Requirement{}, err
		}
		ret.Marker = marker
	}

	return ret, nil
}

// NormalizedName returns the normalized project name.
func (r Requirement) NormalizedName() string {
	return pep503.NormalizeName(r.Name)
}

// WithExtraMarker returns a copy of the requirement that only applies when the extra 'name' is
// requested.
func (r Requirement) WithExtraMarker(name string) Requirement {
	r.Marker = And(r.Marker, ExtraMarker(name))
	return r
}

func (r Requirement) String() string {
	var ret strings.Builder
	ret.WriteString(r.Name)
	if len(r.Extras) > 0 {
		ret.WriteString("[" + strings.Join(r.Extras, ",") + "]")
	}
	switch {
	case r.URL != "":
		ret.WriteString(" @ " + r.URL)
	case len(r.Specifier) > 0:
		ret.WriteString(r.Specifier.String())
	}
	if r.Marker != nil {
		ret.WriteString(" ; " + r.Marker.String())
	}
	return ret.String()
}

// MarshalText implements encoding.TextMarshaler.
func (r Requirement) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
