// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep440

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/intstr"
)

// reVersion is the permissive regular expression from PEP 440 Appendix B; it accepts anything
// that can be normalized.
var reVersion = regexp.MustCompile(`(?i)^\s*` + regexp.MustCompile(`(?:\s+|#.*)`).ReplaceAllString(`
		v?
		(?:
		    (?:(?P<epoch>[0-9]+)!)?                           # epoch
		    (?P<release>[0-9]+(?:\.[0-9]+)*)                  # release segment
		    (?P<pre>                                          # pre-release
		        [-_\.]?
		        (?P<pre_l>(a|b|c|rc|alpha|beta|pre|preview))
		        [-_\.]?
		        (?P<pre_n>[0-9]+)?
		    )?
		    (?P<post>                                         # post release
		        (?:-(?P<post_n1>[0-9]+))
		        |
		        (?:
		            [-_\.]?
		            (?P<post_l>post|rev|r)
		            [-_\.]?
		            (?P<post_n2>[0-9]+)?
		        )
		    )?
		    (?P<dev>                                          # dev release
		        [-_\.]?
		        (?P<dev_l>dev)
		        [-_\.]?
		        (?P<dev_n>[0-9]+)?
		    )?
		)
		(?:\+(?P<local>[a-z0-9]+(?:[-_\.][a-z0-9]+)*))?       # local version
	`, ``) + `\s*$`)

//nolint:gochecknoglobals // Would be 'const'.
var preReleaseSpellings = map[string]string{
	"a":       "a",
	"alpha":   "a",
	"b":       "b",
	"beta":    "b",
	"rc":      "rc",
	"c":       "rc",
	"pre":     "rc",
	"preview": "rc",
}

func atoiOr(str string, dflt int) (int, error) {
	if str == "" {
		return dflt, nil
	}
	return strconv.Atoi(str)
}

func parseVersion(str string) (*Version, error) {
	match := reVersion.FindStringSubmatch(str)
	if match == nil {
		return nil, fmt.Errorf("invalid version: %q", str)
	}
	group := func(name string) string {
		return match[reVersion.SubexpIndex(name)]
	}

	var ver Version
	var err error

	if ver.Epoch, err = atoiOr(group("epoch"), 0); err != nil {
		return nil, fmt.Errorf("epoch: %w", err)
	}

	for _, segStr := range strings.Split(group("release"), ".") {
		segInt, err := strconv.Atoi(segStr)
		if err != nil {
			return nil, fmt.Errorf("release: %w", err)
		}
		ver.Release = append(ver.Release, segInt)
	}

	if preL := strings.ToLower(group("pre_l")); preL != "" {
		n, err := atoiOr(group("pre_n"), 0)
		if err != nil {
			return nil, fmt.Errorf("pre-release: %w", err)
		}
		ver.Pre = &PreRelease{L: preReleaseSpellings[preL], N: n}
	}

	// "1.0-1" is an implicit post-release; "1.0.post" is post0.
	if group("post") != "" {
		n, err := atoiOr(group("post_n1")+group("post_n2"), 0)
		if err != nil {
			return nil, fmt.Errorf("post-release: %w", err)
		}
		ver.Post = &n
	}

	if group("dev") != "" {
		n, err := atoiOr(group("dev_n"), 0)
		if err != nil {
			return nil, fmt.Errorf("dev: %w", err)
		}
		ver.Dev = &n
	}

	localParts := strings.FieldsFunc(group("local"), func(r rune) bool {
		return strings.ContainsRune("-_.", r)
	})
	for _, part := range localParts {
		ver.Local = append(ver.Local, intstr.Parse(strings.ToLower(part)))
	}

	return &ver, nil
}
