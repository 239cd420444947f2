// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep629 implements PEP 629 -- Versioning PyPI's Simple API.
//
// https://www.python.org/dev/peps/pep-0629/
package pep629

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"github.com/datawire/pydist/pkg/htmlutil"
	"github.com/datawire/pydist/pkg/python/pep440"
)

//nolint:gochecknoglobals // Would be 'const'.
var SupportedVersion = pep440.MustParseVersion("1.0")

// GetVersion returns the page's repository version, from
//
//     <meta name="pypi:repository-version" content="1.0">
//
// Pages without the tag are version 1.0.
func GetVersion(doc *html.Node) (*pep440.Version, error) {
	verStr := "1.0"
	_ = htmlutil.VisitHTML(doc, nil, func(node *html.Node) error {
		if !htmlutil.IsElement(node, "meta") {
			return nil
		}
		if name, _ := htmlutil.GetAttr(node, "", "name"); name != "pypi:repository-version" {
			return nil
		}
		if content, ok := htmlutil.GetAttr(node, "", "content"); ok {
			verStr = content
		}
		return nil
	})
	return pep440.ParseVersion(verStr)
}

// HTMLVersionCheck is a pep503.HTMLHook that rejects pages with an incompatible major version,
// and warns about pages with a newer minor version.
func HTMLVersionCheck(ctx context.Context, doc *html.Node) error {
	version, err := GetVersion(doc)
	if err != nil {
		return err
	}
	if version.Major() > SupportedVersion.Major() {
		return fmt.Errorf("page's pypi:repository-version (%s) is not compatible with this parser", version)
	}
	if version.Minor() > SupportedVersion.Minor() {
		dlog.Warnf(ctx, "page's pypi:repository-version (%s) is newer than this parser", version)
	}
	return nil
}
