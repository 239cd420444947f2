// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pep621

import (
	"errors"
	"fmt"
)

// ErrUnusableMetadata is matched (with errors.Is) by every error that ParseRequiresDist
// returns.  The caller should fall back to another source of metadata, such as building the
// package.
var ErrUnusableMetadata = errors.New("pyproject.toml metadata is not usable")

// ConfigParseError is returned if pyproject.toml is not valid TOML, does not have the structure
// that PEP 621 requires, or contains an invalid requirement.
type ConfigParseError struct {
	Err error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("invalid pyproject.toml: %v", e.Err)
}

func (e *ConfigParseError) Unwrap() error        { return e.Err }
func (e *ConfigParseError) Is(target error) bool { return target == ErrUnusableMetadata }

// MissingFieldError is returned if a required field is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("pyproject.toml: missing field %q", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrUnusableMetadata }

// DynamicFieldError is returned if a field that is needed is declared as "dynamic", meaning
// that the build backend computes it.
type DynamicFieldError struct {
	Field string
}

func (e *DynamicFieldError) Error() string {
	return fmt.Sprintf("pyproject.toml: field %q is declared dynamic", e.Field)
}

func (e *DynamicFieldError) Is(target error) bool { return target == ErrUnusableMetadata }

// LegacyToolSyntaxError is returned if there is no "project.dependencies" field, but there is a
// tool-specific section that most likely declares the dependencies instead.
type LegacyToolSyntaxError struct {
	Tool string
}

func (e *LegacyToolSyntaxError) Error() string {
	return fmt.Sprintf("pyproject.toml: dependencies are declared in [tool.%s] rather than in [project]", e.Tool)
}

func (e *LegacyToolSyntaxError) Is(target error) bool { return target == ErrUnusableMetadata }
