package pep425_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/pydist/pkg/python/pep425"
)

func mustParseTags(t *testing.T, strs ...string) []pep425.Tag {
	t.Helper()
	ret := make([]pep425.Tag, 0, len(strs))
	for _, str := range strs {
		tag, err := pep425.ParseTag(str)
		require.NoError(t, err)
		ret = append(ret, tag)
	}
	return ret
}

func TestParseTag(t *testing.T) {
	t.Parallel()
	tag, err := pep425.ParseTag("py2.py3-none-any")
	require.NoError(t, err)
	assert.Equal(t, pep425.Tag{Python: "py2.py3", ABI: "none", Platform: "any"}, tag)
	assert.Equal(t, []pep425.Tag{
		{Python: "py2", ABI: "none", Platform: "any"},
		{Python: "py3", ABI: "none", Platform: "any"},
	}, tag.Decompress())
	assert.Equal(t, "py2.py3-none-any", tag.String())

	for _, invalid := range []string{"", "py3-none", "py3-none-any-extra", "py3--any", ".py3-none-any"} {
		_, err := pep425.ParseTag(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestTagsCompatibility(t *testing.T) {
	t.Parallel()
	table := pep425.NewTags(mustParseTags(t,
		"cp39-cp39-manylinux_2_17_x86_64",
		"cp39-abi3-manylinux_2_17_x86_64",
		"cp39-none-manylinux_2_17_x86_64",
		// compressed: expands to two entries
		"py39-none-any.py3-none-any",
		// duplicate: keeps rank 1
		"cp39-cp39-manylinux_2_17_x86_64",
	))
	require.Equal(t, 5, table.Len())

	type testcase struct {
		WheelTags []string
		Expected  pep425.TagCompatibility
	}
	testcases := map[string]testcase{
		"exact-best": {
			WheelTags: []string{"cp39-cp39-manylinux_2_17_x86_64"},
			Expected:  pep425.TagCompatibility{Preference: 1},
		},
		"abi3": {
			WheelTags: []string{"cp39-abi3-manylinux_2_17_x86_64"},
			Expected:  pep425.TagCompatibility{Preference: 2},
		},
		"pure": {
			WheelTags: []string{"py2.py3-none-any"},
			Expected:  pep425.TagCompatibility{Preference: 5},
		},
		"best-of-several": {
			WheelTags: []string{"py3-none-any", "cp39-abi3-manylinux_2_17_x86_64"},
			Expected:  pep425.TagCompatibility{Preference: 2},
		},
		"wrong-python": {
			WheelTags: []string{"cp27-cp27mu-manylinux1_x86_64"},
			Expected:  pep425.TagCompatibility{Incompatible: pep425.IncompatiblePython},
		},
		"wrong-abi": {
			WheelTags: []string{"cp39-cp39d-manylinux_2_17_x86_64"},
			Expected:  pep425.TagCompatibility{Incompatible: pep425.IncompatibleABI},
		},
		"wrong-platform": {
			WheelTags: []string{"cp39-cp39-win_amd64"},
			Expected:  pep425.TagCompatibility{Incompatible: pep425.IncompatiblePlatform},
		},
		"closest-miss-wins": {
			WheelTags: []string{"cp27-cp27m-win_amd64", "cp39-cp39-macosx_11_0_arm64"},
			Expected:  pep425.TagCompatibility{Incompatible: pep425.IncompatiblePlatform},
		},
	}
	for tcName, tcData := range testcases {
		tcName, tcData := tcName, tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			actual := table.Compatibility(mustParseTags(t, tcData.WheelTags...))
			assert.Equal(t, tcData.Expected, actual)
			assert.Equal(t, tcData.Expected.IsCompatible(), table.Supports(mustParseTags(t, tcData.WheelTags...)...))
		})
	}
}

func TestTagsTextRoundTrip(t *testing.T) {
	t.Parallel()
	var tag pep425.Tag
	require.NoError(t, tag.UnmarshalText([]byte("cp310-cp310-linux_s390x")))
	text, err := tag.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "cp310-cp310-linux_s390x", string(text))
	assert.Error(t, tag.UnmarshalText([]byte("nope")))
}
