package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bump/internal/core/domain"
)

func TestParseRecipeID(t *testing.T) {
	id, err := domain.ParseRecipeID(" cross/zlib/ ")
	require.NoError(t, err)
	assert.Equal(t, domain.RecipeID("cross/zlib"), id)
	assert.Equal(t, "cross", id.Namespace())
	assert.Equal(t, "zlib", id.Name())

	for _, bad := range []string{"", "zlib", "cross/", "/zlib", "cross/zlib/extra"} {
		_, err := domain.ParseRecipeID(bad)
		assert.True(t, errors.Is(err, domain.ErrInvalidRecipeID), bad)
	}
}

func TestSortedIDs(t *testing.T) {
	in := []domain.RecipeID{"spk/b", "cross/a", "spk/b", "cross/a"}
	assert.Equal(t, []domain.RecipeID{"cross/a", "spk/b"}, domain.SortedIDs(in))
	assert.Equal(t, domain.RecipeID("spk/b"), in[0], "input must not be reordered")
	assert.Nil(t, domain.SortedIDs(nil))
}

func TestNormalizeDiscoveryMethod(t *testing.T) {
	assert.Equal(t, domain.MethodSingleLatest, domain.NormalizeDiscoveryMethod("Single-Latest"))
	assert.Equal(t, domain.MethodSingleLatest, domain.NormalizeDiscoveryMethod("latest"))
	assert.Equal(t, domain.MethodEnumerated, domain.NormalizeDiscoveryMethod(""))
	assert.Equal(t, domain.MethodEnumerated, domain.NormalizeDiscoveryMethod("github"))
}

func TestNewPackageNode(t *testing.T) {
	deps := []domain.RecipeID{"cross/zlib"}
	n := domain.NewPackageNode("cross/openssl", domain.RecipeInfo{
		Path:         "cross/openssl",
		Dependencies: deps,
		VersionInfo:  domain.VersionInfo{Version: "3.0.0", Method: domain.MethodEnumerated},
	})

	deps[0] = "cross/changed"
	assert.Equal(t, []domain.RecipeID{"cross/zlib"}, n.Dependencies)
	assert.Equal(t, "3.0.0", n.Info.Version)
	assert.Empty(t, n.Parents)

	assert.True(t, n.AddParent("spk/foo"))
	assert.False(t, n.AddParent("spk/foo"))
}

func TestCandidateVersions(t *testing.T) {
	n := &domain.PackageNode{Info: domain.VersionInfo{Candidates: map[string]domain.Candidate{
		"b": {Version: "b"}, "a": {Version: "a"}, "c": {Version: "c"},
	}}}
	assert.Equal(t, []string{"a", "b", "c"}, n.CandidateVersions())
}
