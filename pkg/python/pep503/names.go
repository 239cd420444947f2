// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep503 implements PEP 503 -- Simple Repository API.
//
// Only the offline parts are implemented: project name normalization, and parsing of an
// already-fetched repository page (which is also the format of a "find-links" page) in to links.
//
// https://www.python.org/dev/peps/pep-0503/
package pep503

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var reSeparatorRun = regexp.MustCompile(`[-_.]+`)

// NormalizeName normalizes a project name: lowercased, with every run of "-", "_", and "."
// collapsed to a single "-".  Two names refer to the same project if and only if their normal
// forms are equal.
func NormalizeName(name string) string {
	return strings.ToLower(reSeparatorRun.ReplaceAllLiteralString(name, "-"))
}

// ValidateName returns an error if 'name' contains anything other than ASCII letters, ASCII
// digits, ".", "-", and "_", or if it begins or ends with punctuation.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("pep503.ValidateName: empty name")
	}
	for _, char := range name {
		if !(('a' <= char && char <= 'z') ||
			('A' <= char && char <= 'Z') ||
			('0' <= char && char <= '9') ||
			char == '.' ||
			char == '-' ||
			char == '_') {
			return fmt.Errorf("pep503.ValidateName: illegal character in name: %q: %s",
				name, strconv.QuoteRuneToASCII(char))
		}
	}
	if strings.ContainsRune("-_.", rune(name[0])) || strings.ContainsRune("-_.", rune(name[len(name)-1])) {
		return fmt.Errorf("pep503.ValidateName: name must start and end with a letter or digit: %q", name)
	}
	return nil
}
