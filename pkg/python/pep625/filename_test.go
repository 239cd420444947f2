package pep625_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/pydist/pkg/python/pep625"
)

func TestParseFilename(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Name      string
		Version   string
		Extension pep625.Extension
	}
	testcases := map[string]testcase{
		"requests-2.31.0.tar.gz":       {"requests", "2.31.0", pep625.ExtTarGz},
		"Django-4.2.zip":               {"django", "4.2", pep625.ExtZip},
		"zope.interface-5.4.0.tar.bz2": {"zope-interface", "5.4.0", pep625.ExtTarBz2},
		"foo_bar-baz-1.0rc1.tgz":       {"foo-bar-baz", "1.0rc1", pep625.ExtTgz},
		"pkg-1!2.0.post3.dev4.tar.zst": {"pkg", "1!2.0.post3.dev4", pep625.ExtTarZst},
		"pkg-1.0+local.7.tar.xz":       {"pkg", "1.0+local.7", pep625.ExtTarXz},
		"pkg-0.1.tar.lzma":             {"pkg", "0.1", pep625.ExtTarLzma},
		"pkg-0.1.txz":                  {"pkg", "0.1", pep625.ExtTxz},
		"pkg-0.1.tbz":                  {"pkg", "0.1", pep625.ExtTbz},
	}
	for input, tcData := range testcases {
		input, tcData := input, tcData
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			data, err := pep625.ParseFilename(input)
			require.NoError(t, err)
			assert.Equal(t, tcData.Name, data.Name())
			assert.Equal(t, tcData.Version, data.Version.String())
			assert.Equal(t, tcData.Extension, data.Extension)
		})
	}
}

func TestParseFilenameInvalid(t *testing.T) {
	t.Parallel()
	for _, input := range []string{
		"pkg-1.0-py3-none-any.whl",
		"pkg.tar.gz",
		"pkg-.tar.gz",
		"pkg-notaversion.tar.gz",
		"-1.0.tar.gz",
		"pkg-1.0.rar",
	} {
		_, err := pep625.ParseFilename(input)
		assert.Error(t, err, input)
	}
}
