// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep592 implements PEP 592 -- Adding "Yank" Support to the Simple API.
//
// https://www.python.org/dev/peps/pep-0592/
package pep592

import (
	"github.com/datawire/pydist/pkg/python/pep503"
)

// IsYanked returns whether a repository link has been yanked, and the reason given for it (which
// may be empty even if the link is yanked).
func IsYanked(l pep503.Link) (reason string, yanked bool) {
	reason, yanked = l.DataAttrs["data-yanked"]
	return reason, yanked
}
