package findlinks_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/pydist/pkg/python/dist"
	"github.com/datawire/pydist/pkg/python/findlinks"
)

var sha256A = strings.Repeat("a1", 32)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func filenames(entries []dist.Entry) []string {
	ret := make([]string, 0, len(entries))
	for _, entry := range entries {
		ret = append(ret, entry.File.Filename)
	}
	return ret
}

func TestReadDir(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"demo-1.0-py3-none-any.whl": "",
		"demo-1.0.tar.gz":           "",
		"README.txt":                "",
		"notes.tar.gz":              "",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub-1.0.tar.gz"), 0o755))

	src, err := findlinks.Read(ctx, dir)
	require.NoError(t, err)
	assert.False(t, src.Unreachable)
	assert.Equal(t, []string{"demo-1.0-py3-none-any.whl", "demo-1.0.tar.gz"}, filenames(src.Entries))
	for _, entry := range src.Entries {
		assert.Equal(t, dir, entry.Index)
		assert.Equal(t, "demo", entry.Filename.Name())
		assert.Empty(t, entry.File.Hashes)
		assert.True(t, strings.HasPrefix(entry.File.URL, "file://"), entry.File.URL)
	}
	_, isWheel := src.Entries[0].Filename.(*dist.WheelFilename)
	assert.True(t, isWheel)
	_, isSource := src.Entries[1].Filename.(*dist.SourceFilename)
	assert.True(t, isSource)
}

const page = `<!DOCTYPE html>
<html>
  <head><meta name="pypi:repository-version" content="1.0"></head>
  <body>
    <a href="demo-2.0-py3-none-any.whl#sha256=` + "SHA256A" + `" data-requires-python="&gt;=3.7">demo-2.0-py3-none-any.whl</a>
    <a href="demo-2.0.tar.gz" data-yanked="broken build">demo-2.0.tar.gz</a>
    <a href="https://example.com/files/other-1.0.zip#md5=nothex">other-1.0.zip</a>
    <a href="index.html">not a distribution</a>
  </body>
</html>
`

func TestReadHTML(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"links.html": strings.ReplaceAll(page, "SHA256A", sha256A),
	})
	location := filepath.Join(dir, "links.html")

	src, err := findlinks.Read(ctx, location)
	require.NoError(t, err)
	require.Equal(t, []string{"demo-2.0-py3-none-any.whl", "demo-2.0.tar.gz", "other-1.0.zip"}, filenames(src.Entries))

	wheel := src.Entries[0]
	assert.Equal(t, location, wheel.Index)
	assert.Equal(t, []dist.HashDigest{{Algorithm: "sha256", Digest: sha256A}}, wheel.File.Hashes)
	assert.Equal(t, ">=3.7", wheel.File.RequiresPython.String())
	assert.False(t, wheel.File.Yanked)
	assert.False(t, strings.Contains(wheel.File.URL, "#"), wheel.File.URL)
	assert.True(t, strings.HasSuffix(wheel.File.URL, "/demo-2.0-py3-none-any.whl"), wheel.File.URL)

	sdist := src.Entries[1]
	assert.True(t, sdist.File.Yanked)
	assert.Equal(t, "broken build", sdist.File.YankedReason)
	assert.Nil(t, sdist.File.RequiresPython)

	other := src.Entries[2]
	assert.Equal(t, "https://example.com/files/other-1.0.zip", other.File.URL)
	assert.Empty(t, other.File.Hashes)
}

func TestReadIncompatiblePage(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"links.html": `<html><head><meta name="pypi:repository-version" content="2.0"></head></html>`,
	})
	_, err := findlinks.Read(ctx, filepath.Join(dir, "links.html"))
	assert.Error(t, err)
}

func TestReadNetworkLocation(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, true)
	_, err := findlinks.Read(ctx, "https://example.com/simple/demo/")
	assert.True(t, errors.Is(err, findlinks.ErrUnsupportedLocation), err)
}

func TestCollect(t *testing.T) {
	t.Parallel()
	first := t.TempDir()
	second := t.TempDir()
	writeFiles(t, first, map[string]string{
		"b-1.0-py3-none-any.whl": "",
		"a-1.0-py3-none-any.whl": "",
	})
	writeFiles(t, second, map[string]string{
		"c-1.0.tar.gz": "",
	})

	t.Run("reachable", func(t *testing.T) {
		t.Parallel()
		ctx := dlog.NewTestContext(t, true)
		entries := findlinks.Collect(ctx, second, "file://"+filepath.ToSlash(first))
		assert.False(t, entries.Offline)
		assert.Equal(t, []string{"c-1.0.tar.gz", "a-1.0-py3-none-any.whl", "b-1.0-py3-none-any.whl"},
			filenames(entries.Entries))
	})
	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		ctx := dlog.NewTestContext(t, true)
		entries := findlinks.Collect(ctx, first, filepath.Join(second, "does-not-exist"))
		assert.True(t, entries.Offline)
		assert.Equal(t, []string{"a-1.0-py3-none-any.whl", "b-1.0-py3-none-any.whl"},
			filenames(entries.Entries))
	})
	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		ctx := dlog.NewTestContext(t, true)
		entries := findlinks.Collect(ctx)
		assert.False(t, entries.Offline)
		assert.Empty(t, entries.Entries)
	})
}

func TestFold(t *testing.T) {
	t.Parallel()
	entries := findlinks.Fold([]findlinks.Source{
		{Location: "a", Entries: []dist.Entry{{File: dist.File{Filename: "x-1.0.zip"}}}},
		{Location: "b", Unreachable: true},
		{Location: "c", Entries: []dist.Entry{{File: dist.File{Filename: "y-1.0.zip"}}}},
	})
	assert.True(t, entries.Offline)
	assert.Equal(t, []string{"x-1.0.zip", "y-1.0.zip"}, filenames(entries.Entries))
}
