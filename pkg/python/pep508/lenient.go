// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep508

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// ">=1.0.*" is not valid, but means ">=1.0"
	reInequalityWildcard = regexp.MustCompile(`(~=|>=|<=|>|<)\s*([^,\s*]+?)\.\*`)
	// ">=1.0<2.0" is missing a comma
	reMissingComma = regexp.MustCompile(`([0-9A-Za-z*+])\s*(===|==|!=|~=|>=|<=|>|<)`)
)

func fixSpecifier(spec string) string {
	spec = reInequalityWildcard.ReplaceAllString(spec, "$1$2")
	spec = reMissingComma.ReplaceAllString(spec, "$1,$2")
	clauses := strings.Split(spec, ",")
	nonEmpty := clauses[:0]
	for _, clause := range clauses {
		if clause = strings.TrimSpace(clause); clause != "" {
			nonEmpty = append(nonEmpty, clause)
		}
	}
	return strings.Join(nonEmpty, ",")
}

// ParseLenientRequirement is like ParseRequirement, but tolerates the malformed version
// specifiers that are common in published metadata: wildcards on inequalities (">=1.0.*"),
// missing commas (">=1.0<2.0"), and stray commas (">=1.0,").
func ParseLenientRequirement(str string) (Requirement, error) {
	if ret, err := parseRequirement(str, false); err == nil {
		return ret, nil
	}
	ret, err := parseRequirement(str, true)
	if err != nil {
		return Requirement{}, fmt.Errorf("pep508.ParseLenientRequirement: %q: %w", str, err)
	}
	return ret, nil
}
