// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package dist

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/datawire/pydist/pkg/python"
	"github.com/datawire/pydist/pkg/python/pep440"
	"github.com/datawire/pydist/pkg/python/pep508"
)

// HashDigest is a digest of a file, as found in a "#sha256=..." URL fragment or a
// "--hash=sha256:..." requirement option.
type HashDigest struct {
	// Algorithm is one of the keys of python.HashlibAlgorithmsGuaranteed.
	Algorithm string
	// Digest is lowercase hex.
	Digest string
}

// ParseHashDigest parses "{alg}:{hex}" or "{alg}={hex}".
func ParseHashDigest(str string) (HashDigest, error) {
	sep := strings.IndexAny(str, ":=")
	if sep < 0 {
		return HashDigest{}, fmt.Errorf("dist.ParseHashDigest: %q: expected {algorithm}:{digest}", str)
	}
	return NewHashDigest(str[:sep], str[sep+1:])
}

// NewHashDigest validates the algorithm name and the digest length.
func NewHashDigest(algorithm, digest string) (HashDigest, error) {
	algorithm = strings.ToLower(algorithm)
	newHash, ok := python.HashlibAlgorithmsGuaranteed[algorithm]
	if !ok {
		return HashDigest{}, fmt.Errorf("dist.NewHashDigest: unsupported hash algorithm: %q", algorithm)
	}
	digest = strings.ToLower(digest)
	raw, err := hex.DecodeString(digest)
	if err != nil {
		return HashDigest{}, fmt.Errorf("dist.NewHashDigest: %s: %w", algorithm, err)
	}
	if size := newHash().Size(); len(raw) != size {
		return HashDigest{}, fmt.Errorf("dist.NewHashDigest: %s: digest is %d bytes, expected %d",
			algorithm, len(raw), size)
	}
	return HashDigest{Algorithm: algorithm, Digest: digest}, nil
}

func (h HashDigest) String() string {
	return h.Algorithm + ":" + h.Digest
}

// MarshalText implements encoding.TextMarshaler.
func (h HashDigest) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// HashPolicy is the verification required of a package version's files.  The zero value
// requires no verification.
type HashPolicy struct {
	Validate bool
	Required []HashDigest
}

// HashComparison is the outcome of checking a file's known digests against a HashPolicy.
// Greater values are preferred.
type HashComparison int

const (
	HashMismatched HashComparison = iota
	HashMissing
	HashMatched
)

func (c HashComparison) String() string {
	switch c {
	case HashMismatched:
		return "mismatched"
	case HashMissing:
		return "missing"
	case HashMatched:
		return "matched"
	default:
		panic(fmt.Errorf("invalid HashComparison: %d", int(c)))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c HashComparison) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Compare checks a file's known digests against the policy.
func (p HashPolicy) Compare(known []HashDigest) HashComparison {
	switch {
	case !p.Validate:
		return HashMatched
	case len(known) == 0:
		return HashMissing
	}
	for _, have := range known {
		for _, want := range p.Required {
			if have == want {
				return HashMatched
			}
		}
	}
	return HashMismatched
}

// HashStrategy resolves the HashPolicy for a package version.
type HashStrategy interface {
	// GetPackage is given a normalized package name.
	GetPackage(name string, version pep440.Version) HashPolicy
}

// NoHashes is the HashStrategy that never requires verification.
type NoHashes struct{}

func (NoHashes) GetPackage(string, pep440.Version) HashPolicy {
	return HashPolicy{}
}

type pinnedHashes struct {
	version pep440.Version
	digests []HashDigest
}

// RequiredHashes is a HashStrategy that requires verification of exactly the pinned package
// versions listed in a requirements file.
type RequiredHashes struct {
	pins map[string][]pinnedHashes
}

var reHashOption = regexp.MustCompile(`(?:^|\s)--hash[=\s]\s*(\S+)`)

// ParseRequiredHashes reads requirements in pip's hash-checking format:
//
//     requests==2.31.0 \
//         --hash=sha256:942c5a758f98d790eaed1a29cb6eefc7ffb0d1cf7af05c3d2791656dbd6ad1e1
//
// Every requirement must be pinned with "==" and carry at least one --hash option.  Lines that
// begin with "-" are options that do not concern hashing, and are ignored.
func ParseRequiredHashes(r io.Reader) (*RequiredHashes, error) {
	ret := &RequiredHashes{
		pins: make(map[string][]pinnedHashes),
	}
	scanner := bufio.NewScanner(r)
	var logical strings.Builder
	lineno := 0
	flush := func() error {
		line := logical.String()
		logical.Reset()
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			return nil
		}
		var digests []HashDigest
		for _, match := range reHashOption.FindAllStringSubmatch(line, -1) {
			digest, err := ParseHashDigest(match[1])
			if err != nil {
				return err
			}
			digests = append(digests, digest)
		}
		reqStr := strings.TrimSpace(reHashOption.ReplaceAllString(line, ""))
		req, err := pep508.ParseRequirement(reqStr)
		if err != nil {
			return err
		}
		if len(req.Specifier) != 1 || req.Specifier[0].CmpOp != pep440.CmpOpStrictMatch {
			return fmt.Errorf("requirement is not pinned with ==: %q", reqStr)
		}
		if len(digests) == 0 {
			return fmt.Errorf("requirement has no --hash options: %q", reqStr)
		}
		name := req.NormalizedName()
		ret.pins[name] = append(ret.pins[name], pinnedHashes{
			version: req.Specifier[0].Version,
			digests: digests,
		})
		return nil
	}
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if strings.HasSuffix(line, `\`) {
			logical.WriteString(strings.TrimSuffix(line, `\`))
			logical.WriteString(" ")
			continue
		}
		logical.WriteString(line)
		if err := flush(); err != nil {
			return nil, fmt.Errorf("dist.ParseRequiredHashes: line %d: %w", lineno, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dist.ParseRequiredHashes: %w", err)
	}
	if err := flush(); err != nil {
		return nil, fmt.Errorf("dist.ParseRequiredHashes: line %d: %w", lineno, err)
	}
	return ret, nil
}

// GetPackage implements HashStrategy.
func (h *RequiredHashes) GetPackage(name string, version pep440.Version) HashPolicy {
	for _, pin := range h.pins[name] {
		if pin.version.Equal(version) {
			return HashPolicy{Validate: true, Required: pin.digests}
		}
	}
	return HashPolicy{}
}

// Packages returns the sorted list of package names that have pinned hashes.
func (h *RequiredHashes) Packages() []string {
	ret := make([]string, 0, len(h.pins))
	for name := range h.pins {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
