// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"fmt"
	"strings"
)

// Specifier is a comma-separated list of version clauses, all of which must match.
type Specifier []SpecifierClause

func ParseSpecifier(str string) (Specifier, error) {
	clauseStrs := strings.FieldsFunc(str, func(r rune) bool { return r == ',' })
	ret := make(Specifier, 0, len(clauseStrs))
	for _, clauseStr := range clauseStrs {
		clauseStr = strings.TrimSpace(clauseStr)
		if clauseStr == "" {
			continue
		}
		clause, err := parseSpecifierClause(clauseStr)
		if err != nil {
			return nil, fmt.Errorf("pep440.ParseSpecifier: %w", err)
		}
		ret = append(ret, clause)
	}
	return ret, nil
}

func (spec Specifier) String() string {
	clauses := make([]string, 0, len(spec))
	for _, clause := range spec {
		clauses = append(clauses, clause.String())
	}
	return strings.Join(clauses, ", ")
}

func (spec Specifier) Match(ver Version) bool {
	for _, clause := range spec {
		if !clause.Match(ver) {
			return false
		}
	}
	return true
}

type CmpOp int

const (
	CmpOpCompatible CmpOp = iota
	CmpOpStrictMatch
	CmpOpPrefixMatch
	CmpOpStrictExclude
	CmpOpPrefixExclude
	CmpOpLE
	CmpOpGE
	CmpOpLT
	CmpOpGT
	CmpOpArbitrary
)

// The order of this table matters: longer operators must be tried before their prefixes.
//
//nolint:gochecknoglobals // Would be 'const'.
var cmpOpSpellings = []struct {
	str string
	op  CmpOp
}{
	{"===", CmpOpArbitrary},
	{"~=", CmpOpCompatible},
	{"==", CmpOpStrictMatch},
	{"!=", CmpOpStrictExclude},
	{"<=", CmpOpLE},
	{">=", CmpOpGE},
	{"<", CmpOpLT},
	{">", CmpOpGT},
}

func (op CmpOp) String() string {
	switch op {
	case CmpOpPrefixMatch:
		return "=="
	case CmpOpPrefixExclude:
		return "!="
	}
	for _, spelling := range cmpOpSpellings {
		if spelling.op == op {
			return spelling.str
		}
	}
	panic(fmt.Errorf("invalid CmpOp: %d", int(op)))
}

type SpecifierClause struct {
	CmpOp   CmpOp
	Version Version
	// Raw is the literal operand of an "===" clause, which need not be a valid version.
	Raw string
}

func parseSpecifierClause(str string) (SpecifierClause, error) {
	var ret SpecifierClause
	str = strings.TrimSpace(str)
	found := false
	for _, spelling := range cmpOpSpellings {
		if strings.HasPrefix(str, spelling.str) {
			ret.CmpOp = spelling.op
			str = strings.TrimSpace(str[len(spelling.str):])
			found = true
			break
		}
	}
	if !found {
		return ret, fmt.Errorf("invalid comparison operator: %q", str)
	}
	if ret.CmpOp == CmpOpArbitrary {
		ret.Raw = str
		return ret, nil
	}
	wildcard := strings.HasSuffix(str, ".*")
	if wildcard {
		switch ret.CmpOp {
		case CmpOpStrictMatch:
			ret.CmpOp = CmpOpPrefixMatch
		case CmpOpStrictExclude:
			ret.CmpOp = CmpOpPrefixExclude
		default:
			return ret, fmt.Errorf("wildcard not permitted in %s specifier clauses: %q", ret.CmpOp, str)
		}
		str = strings.TrimSuffix(str, ".*")
	}
	ver, err := ParseVersion(str)
	if err != nil {
		return ret, err
	}
	switch ret.CmpOp {
	case CmpOpCompatible:
		if len(ver.Release) < 2 {
			return ret, fmt.Errorf("at least 2 release segments required in ~= specifier clauses")
		}
		fallthrough
	case CmpOpLE, CmpOpGE, CmpOpLT, CmpOpGT:
		if len(ver.Local) > 0 {
			return ret, fmt.Errorf("local-part not permitted in %s specifier clauses", ret.CmpOp)
		}
	case CmpOpPrefixMatch, CmpOpPrefixExclude:
		if ver.Dev != nil || len(ver.Local) > 0 {
			return ret, fmt.Errorf("dev-part and local-part not permitted in prefix specifier clauses")
		}
	}
	ret.Version = *ver
	return ret, nil
}

func (clause SpecifierClause) String() string {
	switch clause.CmpOp {
	case CmpOpArbitrary:
		return clause.CmpOp.String() + clause.Raw
	case CmpOpPrefixMatch, CmpOpPrefixExclude:
		return clause.CmpOp.String() + clause.Version.String() + ".*"
	default:
		return clause.CmpOp.String() + clause.Version.String()
	}
}

func (clause SpecifierClause) Match(ver Version) bool {
	spec := clause.Version
	switch clause.CmpOp {
	case CmpOpCompatible:
		prefix := PublicVersion{
			Epoch:   spec.Epoch,
			Release: spec.Release[:len(spec.Release)-1],
		}
		return ver.Cmp(spec) >= 0 && matchPrefix(prefix, ver.PublicVersion)
	case CmpOpStrictMatch:
		if len(spec.Local) == 0 {
			return spec.PublicVersion.Cmp(ver.PublicVersion) == 0
		}
		return spec.Cmp(ver) == 0
	case CmpOpPrefixMatch:
		return matchPrefix(spec.PublicVersion, ver.PublicVersion)
	case CmpOpStrictExclude:
		return !SpecifierClause{CmpOp: CmpOpStrictMatch, Version: spec}.Match(ver)
	case CmpOpPrefixExclude:
		return !matchPrefix(spec.PublicVersion, ver.PublicVersion)
	case CmpOpLE:
		return ver.PublicVersion.Cmp(spec.PublicVersion) <= 0
	case CmpOpGE:
		return ver.PublicVersion.Cmp(spec.PublicVersion) >= 0
	case CmpOpLT:
		// "<V" does not admit pre-releases of V unless V is itself a pre-release.
		if ver.PublicVersion.Cmp(spec.PublicVersion) >= 0 {
			return false
		}
		return spec.IsPreRelease() || !ver.IsPreRelease() || cmpRelease(ver.PublicVersion, spec.PublicVersion) != 0
	case CmpOpGT:
		// ">V" does not admit post-releases of V unless V is itself a post-release.
		if ver.PublicVersion.Cmp(spec.PublicVersion) <= 0 {
			return false
		}
		return spec.Post != nil || ver.Post == nil || cmpRelease(ver.PublicVersion, spec.PublicVersion) != 0
	case CmpOpArbitrary:
		return strings.EqualFold(clause.Raw, ver.String())
	default:
		panic(fmt.Errorf("invalid CmpOp: %d", int(clause.CmpOp)))
	}
}

// matchPrefix implements "==V.*": the release of ver is truncated to the length of spec's release
// before comparison, and any pre/post-release in spec must match exactly.
func matchPrefix(spec, ver PublicVersion) bool {
	if cmpEpoch(spec, ver) != 0 {
		return false
	}
	if spec.Pre == nil && spec.Post == nil && len(ver.Release) > len(spec.Release) {
		ver.Release = ver.Release[:len(spec.Release)]
	}
	if cmpRelease(spec, ver) != 0 {
		return false
	}
	if spec.Pre == nil && spec.Post == nil {
		return true
	}
	if (spec.Pre == nil) != (ver.Pre == nil) ||
		(spec.Pre != nil && *spec.Pre != *ver.Pre) {
		return false
	}
	if spec.Post == nil {
		return true
	}
	return ver.Post != nil && *spec.Post == *ver.Post
}
