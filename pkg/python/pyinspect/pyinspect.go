// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pyinspect determines information about a Python environment by running its
// interpreter.
package pyinspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/datawire/dlib/dexec"
	"github.com/datawire/dlib/dlog"

	"github.com/datawire/pydist/pkg/python"
	"github.com/datawire/pydist/pkg/python/pep425"
)

const inspectScript = `
import json
import sys
from packaging.tags import sys_tags

version_info_slots = ['major', 'minor', 'micro', 'releaselevel', 'serial']

json.dump({
  "tags": [str(tag) for tag in sys_tags()],
  "version_info": {slot: getattr(sys.version_info, slot) for slot in version_info_slots},
}, sys.stdout)
`

// VersionInfo mimics Python's sys.version_info.
type VersionInfo struct {
	Major        int    `json:"major"`
	Minor        int    `json:"minor"`
	Micro        int    `json:"micro"`
	ReleaseLevel string `json:"releaselevel"`
	Serial       int    `json:"serial"`
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}

// DynamicInfo is what the interpreter reports about itself.
type DynamicInfo struct {
	// Tags is ordered from most-preferred to least-preferred.
	Tags        []pep425.Tag `json:"tags"`
	VersionInfo VersionInfo  `json:"version_info"`
}

// Platform returns the platform description for the interpreter.
func (info *DynamicInfo) Platform() *python.Platform {
	return &python.Platform{Tags: info.Tags}
}

// Dynamic runs the interpreter 'cmdline' (such as "python3"), which must have the "packaging"
// library available.
func Dynamic(ctx context.Context, cmdline ...string) (*DynamicInfo, error) {
	if len(cmdline) == 0 {
		return nil, fmt.Errorf("pyinspect.Dynamic: empty interpreter command")
	}
	exe, err := dexec.LookPath(cmdline[0])
	if err != nil {
		return nil, fmt.Errorf("pyinspect.Dynamic: %w", err)
	}
	dlog.Debugf(ctx, "pyinspect: inspecting %q", exe)

	cmd := dexec.CommandContext(ctx, exe, append(cmdline[1:], "-c", inspectScript)...)
	cmd.DisableLogging = true
	bs, err := cmd.Output()
	if err != nil {
		var exitErr *dexec.ExitError
		if errors.As(err, &exitErr) {
			err = fmt.Errorf("%w:\n > %s", err,
				strings.Join(strings.Split(strings.TrimRight(string(exitErr.Stderr), "\n"), "\n"), "\n > "))
		}
		return nil, fmt.Errorf("pyinspect.Dynamic: running Python: %w", err)
	}
	var data DynamicInfo
	if err := json.Unmarshal(bs, &data); err != nil {
		return nil, fmt.Errorf("pyinspect.Dynamic: %w", err)
	}
	if len(data.Tags) == 0 {
		return nil, fmt.Errorf("pyinspect.Dynamic: interpreter reported no supported tags")
	}
	return &data, nil
}
