// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package findlinks discovers distribution files in "find-links" locations: local directories
// of wheels and sdists, and saved PEP 503 HTML pages.  No network I/O is performed; a location
// that cannot be read marks the resulting batch as offline.
package findlinks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/sync/errgroup"

	"github.com/datawire/pydist/pkg/python/dist"
	"github.com/datawire/pydist/pkg/python/pep440"
	"github.com/datawire/pydist/pkg/python/pep503"
	"github.com/datawire/pydist/pkg/python/pep592"
	"github.com/datawire/pydist/pkg/python/pep625"
	"github.com/datawire/pydist/pkg/python/pep629"
)

// ErrUnsupportedLocation is returned for locations that would require network access.
var ErrUnsupportedLocation = errors.New("network locations are not supported")

// Source is the result of reading a single location.
type Source struct {
	Location    string
	Entries     []dist.Entry
	Unreachable bool
}

// Collect reads every location concurrently and folds the results, in location order, in to
// a single batch.
func Collect(ctx context.Context, locations ...string) dist.Entries {
	sources := make([]Source, len(locations))
	grp, grpCtx := errgroup.WithContext(ctx)
	for i, location := range locations {
		i, location := i, location
		grp.Go(func() error {
			src, err := Read(grpCtx, location)
			if err != nil {
				dlog.Warnf(grpCtx, "find-links: %q: %v", location, err)
				src = Source{Location: location, Unreachable: true}
			}
			sources[i] = src
			return nil
		})
	}
	_ = grp.Wait()
	return Fold(sources)
}

// Fold concatenates the entries of each source; the batch is offline if any source was
// unreachable.
func Fold(sources []Source) dist.Entries {
	var ret dist.Entries
	for _, src := range sources {
		ret.Entries = append(ret.Entries, src.Entries...)
		ret.Offline = ret.Offline || src.Unreachable
	}
	return ret
}

// Read reads a single location, which is a filesystem path or "file://" URL naming either a
// directory or an HTML page.
func Read(ctx context.Context, location string) (Source, error) {
	path, err := localPath(location)
	if err != nil {
		return Source{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	var entries []dist.Entry
	if info.IsDir() {
		entries, err = readDir(ctx, location, path)
	} else {
		entries, err = readHTML(ctx, location, path)
	}
	if err != nil {
		return Source{}, err
	}
	return Source{
		Location: location,
		Entries:  entries,
	}, nil
}

func localPath(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// plain path (or a Windows drive letter)
		return location, nil
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%q: %w", location, ErrUnsupportedLocation)
	}
	return u.Path, nil
}

func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func isDistFilename(name string) bool {
	if strings.HasSuffix(name, ".whl") {
		return true
	}
	for _, ext := range pep625.Extensions {
		if strings.HasSuffix(name, string(ext)) {
			return true
		}
	}
	return false
}

func readDir(ctx context.Context, location, dir string) ([]dist.Entry, error) {
	// os.ReadDir returns entries sorted by filename.
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dirents))
	for _, dirent := range dirents {
		if dirent.IsDir() || !isDistFilename(dirent.Name()) {
			continue
		}
		names = append(names, dirent.Name())
	}

	var entries []dist.Entry
	for _, name := range names {
		filename, err := dist.ParseFilename(name)
		if err != nil {
			dlog.Debugf(ctx, "find-links: %q: skipping %q: %v", location, name, err)
			continue
		}
		entries = append(entries, dist.Entry{
			File: dist.File{
				Filename: name,
				URL:      fileURL(filepath.Join(dir, name)),
			},
			Filename: filename,
			Index:    location,
		})
	}
	return entries, nil
}

func readHTML(ctx context.Context, location, path string) ([]dist.Entry, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	base, err := url.Parse(fileURL(path))
	if err != nil {
		return nil, err
	}
	links, err := pep503.ParseLinks(ctx, fh, base, pep629.HTMLVersionCheck)
	if err != nil {
		return nil, err
	}

	var entries []dist.Entry
	for _, link := range links {
		entry, err := linkEntry(ctx, link)
		if err != nil {
			dlog.Debugf(ctx, "find-links: %q: skipping %q: %v", location, link.HRef, err)
			continue
		}
		entry.Index = location
		entries = append(entries, entry)
	}
	return entries, nil
}

func linkEntry(ctx context.Context, link pep503.Link) (dist.Entry, error) {
	name := link.Filename()
	filename, err := dist.ParseFilename(name)
	if err != nil {
		return dist.Entry{}, err
	}
	file := dist.File{
		Filename: name,
		URL:      link.URL(),
	}
	if alg, digest, ok := link.HashFragment(); ok {
		hash, err := dist.NewHashDigest(alg, digest)
		if err != nil {
			dlog.Debugf(ctx, "find-links: %q: ignoring hash: %v", name, err)
		} else {
			file.Hashes = append(file.Hashes, hash)
		}
	}
	if reqPy, ok := link.DataAttrs["data-requires-python"]; ok && reqPy != "" {
		spec, err := pep440.ParseSpecifier(reqPy)
		if err != nil {
			dlog.Debugf(ctx, "find-links: %q: ignoring data-requires-python: %v", name, err)
		} else {
			file.RequiresPython = spec
		}
	}
	file.YankedReason, file.Yanked = pep592.IsYanked(link)
	return dist.Entry{
		File:     file,
		Filename: filename,
	}, nil
}
