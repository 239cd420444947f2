package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

// The commands share the global argparser, so these tests may not run in parallel.

func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	ctx := dlog.NewTestContext(t, true)
	var out strings.Builder
	argparser.SetOut(&out)
	argparser.SetArgs(args)
	require.NoError(t, argparser.ExecuteContext(ctx))
	return out.String()
}

func writeFile(t *testing.T, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
}

//nolint:paralleltest // shares argparser
func TestFlatIndexCommand(t *testing.T) {
	dir := t.TempDir()
	links := filepath.Join(dir, "links")
	require.NoError(t, os.Mkdir(links, 0o755))
	for _, name := range []string{
		"demo-1.0-py3-none-any.whl",
		"demo-1.0-cp39-cp39-manylinux_2_17_x86_64.whl",
		"demo-1.0.tar.gz",
		"demo-2.0-cp27-cp27m-win32.whl",
		"other-0.1.zip",
	} {
		writeFile(t, filepath.Join(links, name), "")
	}
	platFile := filepath.Join(dir, "platform.yml")
	writeFile(t, platFile, "tags:\n"+
		"  - cp39-cp39-manylinux_2_17_x86_64\n"+
		"  - py3-none-any\n")

	out := runCmd(t, "flat-index",
		"--platform-file="+platFile,
		"--no-build=demo",
		"--package=demo",
		links,
		filepath.Join(dir, "does-not-exist"))

	var report flatIndexOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.True(t, report.Offline)
	require.Len(t, report.Packages, 1)
	versions := report.Packages["demo"]
	require.Len(t, versions, 2)

	assert.Equal(t, "1.0", versions[0].Version)
	require.NotNil(t, versions[0].Wheel)
	assert.Equal(t, "demo-1.0-cp39-cp39-manylinux_2_17_x86_64.whl", versions[0].Wheel.Filename)
	assert.Equal(t, "compatible: hash matched, tag preference 1", versions[0].Wheel.Verdict)
	assert.Equal(t, links, versions[0].Wheel.Index)
	require.NotNil(t, versions[0].Source)
	assert.Equal(t, "demo-1.0.tar.gz", versions[0].Source.Filename)
	assert.Equal(t, "incompatible: no-build", versions[0].Source.Verdict)

	assert.Equal(t, "2.0", versions[1].Version)
	require.NotNil(t, versions[1].Wheel)
	assert.Equal(t, "incompatible: python tag mismatch", versions[1].Wheel.Verdict)
	assert.Nil(t, versions[1].Source)
}

//nolint:paralleltest // shares argparser
func TestRequiresDistCommand(t *testing.T) {
	pyproject := filepath.Join(t.TempDir(), "pyproject.toml")
	writeFile(t, pyproject, `
[project]
name = "Demo_Pkg"
dependencies = ["requests>=2"]

[project.optional-dependencies]
test = ["pytest"]
`)

	out := runCmd(t, "requires-dist", pyproject)

	var rd requiresDistOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &rd))
	assert.Equal(t, requiresDistOutput{
		Name: "demo-pkg",
		RequiresDist: []string{
			"requests>=2",
			`pytest ; extra == "test"`,
		},
		ProvidesExtras: []string{"test"},
	}, rd)
}

//nolint:paralleltest // shares argparser
func TestTagsCommand(t *testing.T) {
	platFile := filepath.Join(t.TempDir(), "platform.yml")
	writeFile(t, platFile, "tags:\n"+
		"  - cp39-cp39-manylinux_2_17_x86_64\n"+
		"  - py2.py3-none-any\n")

	out := runCmd(t, "tags", "--platform-file", platFile)
	assert.Equal(t, ""+
		"1\tcp39-cp39-manylinux_2_17_x86_64\n"+
		"2\tpy2-none-any\n"+
		"3\tpy3-none-any\n",
		out)
}
