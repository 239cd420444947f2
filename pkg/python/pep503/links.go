// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep503

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/datawire/pydist/pkg/htmlutil"
)

// Link is an anchor from a repository page.
type Link struct {
	Text      string
	HRef      string
	DataAttrs map[string]string
}

// HTMLHook inspects a parsed page before links are extracted from it, for instance to check
// the PEP 629 repository version.
type HTMLHook func(context.Context, *html.Node) error

// ParseLinks parses an HTML repository page, resolving each href relative to 'location' (which
// may be nil if the page has no meaningful location).
func ParseLinks(ctx context.Context, content io.Reader, location *url.URL, hook HTMLHook) ([]Link, error) {
	doc, err := html.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("pep503.ParseLinks: %w", err)
	}
	if location == nil {
		location = &url.URL{}
	}
	if hook != nil {
		if err := hook(ctx, doc); err != nil {
			return nil, fmt.Errorf("pep503.ParseLinks: %w", err)
		}
	}

	// <base href> overrides the page location.
	_ = htmlutil.VisitHTML(doc, func(node *html.Node) error {
		if htmlutil.IsElement(node, "base") {
			if href, ok := htmlutil.GetAttr(node, "", "href"); ok {
				if u, err := location.Parse(href); err == nil {
					location = u
				}
			}
		}
		return nil
	}, nil)

	var links []Link
	if err := htmlutil.VisitHTML(doc, nil, func(node *html.Node) error {
		if !htmlutil.IsElement(node, "a") {
			return nil
		}
		link := Link{
			DataAttrs: make(map[string]string),
		}
		for _, attr := range node.Attr {
			switch {
			case attr.Namespace == "" && attr.Key == "href":
				href, err := location.Parse(attr.Val)
				if err != nil {
					return fmt.Errorf("invalid href: %w", err)
				}
				link.HRef = href.String()
			case attr.Namespace == "" && strings.HasPrefix(attr.Key, "data-"):
				link.DataAttrs[attr.Key] = attr.Val
			}
		}
		if link.HRef == "" {
			return nil
		}
		link.Text = strings.TrimSpace(htmlutil.TextContent(node))
		links = append(links, link)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("pep503.ParseLinks: %w", err)
	}
	return links, nil
}

// Filename returns the final path component of the link's URL, which is the name of the file
// that it points to.  The anchor text is used if the URL has no usable path.
func (l Link) Filename() string {
	u, err := url.Parse(l.HRef)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return l.Text
	}
	return path.Base(u.Path)
}

// URL returns the link's URL without any fragment.
func (l Link) URL() string {
	u, err := url.Parse(l.HRef)
	if err != nil {
		return l.HRef
	}
	u.Fragment = ""
	return u.String()
}

// HashFragment returns the "#<hashname>=<hashvalue>" fragment of the link's URL, if it has one.
func (l Link) HashFragment() (hashname, hashvalue string, ok bool) {
	u, err := url.Parse(l.HRef)
	if err != nil || u.Fragment == "" {
		return "", "", false
	}
	hashname, hashvalue, ok = strings.Cut(u.Fragment, "=")
	if !ok || hashname == "" || hashvalue == "" {
		return "", "", false
	}
	return hashname, hashvalue, true
}
