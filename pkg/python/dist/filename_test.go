package dist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/pydist/pkg/python/dist"
)

func TestParseFilename(t *testing.T) {
	t.Parallel()

	wheel, err := dist.ParseFilename("Jinja2-3.1.2-py3-none-any.whl")
	require.NoError(t, err)
	require.IsType(t, &dist.WheelFilename{}, wheel)
	assert.Equal(t, "jinja2", wheel.Name())
	assert.Equal(t, "3.1.2", dist.FilenameVersion(wheel).String())
	assert.Equal(t, "Jinja2-3.1.2-py3-none-any.whl", wheel.String())

	sdist, err := dist.ParseFilename("Jinja2-3.1.2.tar.gz")
	require.NoError(t, err)
	require.IsType(t, &dist.SourceFilename{}, sdist)
	assert.Equal(t, "jinja2", sdist.Name())
	assert.Equal(t, "3.1.2", dist.FilenameVersion(sdist).String())
	assert.Equal(t, "Jinja2-3.1.2.tar.gz", sdist.String())

	for _, invalid := range []string{
		"Jinja2-3.1.2-any.whl",
		"Jinja2-3.1.2.egg",
		"README.md",
	} {
		_, err := dist.ParseFilename(invalid)
		assert.Error(t, err, invalid)
	}
}
