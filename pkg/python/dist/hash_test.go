package dist_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/pydist/pkg/python/dist"
	"github.com/datawire/pydist/pkg/python/pep440"
)

var (
	sha256A = strings.Repeat("a1", 32)
	sha256B = strings.Repeat("b2", 32)
	sha256C = strings.Repeat("c3", 32)
)

func mustHash(t *testing.T, str string) dist.HashDigest {
	t.Helper()
	digest, err := dist.ParseHashDigest(str)
	require.NoError(t, err)
	return digest
}

func TestParseHashDigest(t *testing.T) {
	t.Parallel()
	digest, err := dist.ParseHashDigest("SHA256=" + strings.ToUpper(sha256A))
	require.NoError(t, err)
	assert.Equal(t, dist.HashDigest{Algorithm: "sha256", Digest: sha256A}, digest)
	assert.Equal(t, "sha256:"+sha256A, digest.String())

	for _, invalid := range []string{
		"sha256",
		"blake3:" + sha256A,
		"sha256:xyz",
		"sha256:" + sha256A[:10],
		"md5:" + sha256A,
	} {
		_, err := dist.ParseHashDigest(invalid)
		assert.Error(t, err, invalid)
	}
}

func TestHashPolicyCompare(t *testing.T) {
	t.Parallel()
	a, b, c := mustHash(t, "sha256:"+sha256A), mustHash(t, "sha256:"+sha256B), mustHash(t, "sha256:"+sha256C)
	type testcase struct {
		Policy   dist.HashPolicy
		Known    []dist.HashDigest
		Expected dist.HashComparison
	}
	testcases := map[string]testcase{
		"none-required":          {dist.HashPolicy{}, nil, dist.HashMatched},
		"none-required-ignored":  {dist.HashPolicy{}, []dist.HashDigest{c}, dist.HashMatched},
		"missing":                {dist.HashPolicy{Validate: true, Required: []dist.HashDigest{a}}, nil, dist.HashMissing},
		"matched":                {dist.HashPolicy{Validate: true, Required: []dist.HashDigest{a, b}}, []dist.HashDigest{c, b}, dist.HashMatched},
		"mismatched":             {dist.HashPolicy{Validate: true, Required: []dist.HashDigest{a}}, []dist.HashDigest{c}, dist.HashMismatched},
		"validate-empty-missing": {dist.HashPolicy{Validate: true}, nil, dist.HashMissing},
	}
	for tcName, tcData := range testcases {
		tcData := tcData
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tcData.Expected, tcData.Policy.Compare(tcData.Known))
		})
	}
	assert.True(t, dist.HashMatched > dist.HashMissing)
	assert.True(t, dist.HashMissing > dist.HashMismatched)
}

func TestParseRequiredHashes(t *testing.T) {
	t.Parallel()
	hashes, err := dist.ParseRequiredHashes(strings.NewReader(`
# pinned with hashes
--index-url https://example.invalid/simple
Requests==2.31.0 \
    --hash=sha256:` + sha256A + ` \
    --hash=sha256:` + sha256B + `
six==1.16.0 --hash sha256:` + sha256C + `  # trailing comment
colorama==0.4.6 ; os_name == "nt" --hash=sha256:` + sha256C + `
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"colorama", "requests", "six"}, hashes.Packages())

	policy := hashes.GetPackage("requests", pep440.MustParseVersion("2.31.0.0"))
	assert.Equal(t, dist.HashPolicy{
		Validate: true,
		Required: []dist.HashDigest{mustHash(t, "sha256:"+sha256A), mustHash(t, "sha256:"+sha256B)},
	}, policy)

	assert.Equal(t, dist.HashPolicy{}, hashes.GetPackage("requests", pep440.MustParseVersion("2.30.0")))
	assert.Equal(t, dist.HashPolicy{}, hashes.GetPackage("urllib3", pep440.MustParseVersion("2.0.0")))
	assert.True(t, hashes.GetPackage("six", pep440.MustParseVersion("1.16.0")).Validate)
	assert.True(t, hashes.GetPackage("colorama", pep440.MustParseVersion("0.4.6")).Validate)

	assert.Equal(t, dist.HashPolicy{}, dist.NoHashes{}.GetPackage("six", pep440.MustParseVersion("1.16.0")))
}

func TestParseRequiredHashesInvalid(t *testing.T) {
	t.Parallel()
	testcases := map[string]string{
		"unpinned":  "six>=1.0 --hash=sha256:" + sha256A,
		"no-hashes": "six==1.16.0",
		"bad-hash":  "six==1.16.0 --hash=sha256:nope",
		"bad-req":   "=== --hash=sha256:" + sha256A,
	}
	for tcName, content := range testcases {
		content := content
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			_, err := dist.ParseRequiredHashes(strings.NewReader(content))
			assert.Error(t, err)
		})
	}
}
