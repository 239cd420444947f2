// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

//nolint:gochecknoglobals // Would be 'const'.
var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          false,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Dump renders a value in a stable, human-diffable form; fmt.Stringers are used where available,
// pointers are followed, and map keys are sorted.
func Dump(v interface{}) string {
	return spewConfig.Sdump(v)
}

// AssertEqualDump compares the Dump of two values, and reports a unified diff if they differ.
// This gives far more readable failures than assert.Equal does for deeply nested structures
// full of pointers.
func AssertEqualDump(t *testing.T, exp, act interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()
	expStr := Dump(exp)
	actStr := Dump(act)
	if expStr == actStr {
		return true
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expStr),
		B:        difflib.SplitLines(actStr),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  2,
	})
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			t.Errorf("Dump diff: "+format+":\n%s", append(msgAndArgs[1:], diff)...)
			return false
		}
	}
	t.Errorf("Dump diff:\n%s", diff)
	return false
}
