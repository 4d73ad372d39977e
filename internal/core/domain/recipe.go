package domain

import (
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// RecipeID identifies one recipe of the tree as "namespace/name" (e.g. "cross/zlib").
type RecipeID string

// ParseRecipeID validates s and returns it as a RecipeID.
func ParseRecipeID(s string) (RecipeID, error) {
	s = strings.Trim(strings.TrimSpace(s), "/")
	ns, name, ok := strings.Cut(s, "/")
	if !ok || ns == "" || name == "" || strings.Contains(name, "/") {
		return "", zerr.With(zerr.Wrap(ErrInvalidRecipeID, "expected namespace/name"), "recipe", s)
	}
	return RecipeID(s), nil
}

// Namespace returns the part before the slash ("cross", "native", "spk").
func (id RecipeID) Namespace() string {
	ns, _, _ := strings.Cut(string(id), "/")
	return ns
}

// Name returns the part after the slash.
func (id RecipeID) Name() string {
	_, name, _ := strings.Cut(string(id), "/")
	return name
}

func (id RecipeID) String() string {
	return string(id)
}

// SortedIDs returns a sorted copy of ids with duplicates removed.
func SortedIDs(ids []RecipeID) []RecipeID {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// DiscoveryMethod tells how candidate versions of a recipe are found.
type DiscoveryMethod string

const (
	// MethodEnumerated yields many comparable candidates, each flagged as prerelease or not.
	MethodEnumerated DiscoveryMethod = "enumerated"
	// MethodSingleLatest yields exactly one synthetic "latest" candidate.
	MethodSingleLatest DiscoveryMethod = "single-latest"
)

// NormalizeDiscoveryMethod converts a string to a DiscoveryMethod, defaulting to enumerated.
func NormalizeDiscoveryMethod(s string) DiscoveryMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(MethodSingleLatest), "latest", "single":
		return MethodSingleLatest
	default:
		return MethodEnumerated
	}
}

// Candidate is one discovered version of a recipe.
type Candidate struct {
	Version    string `json:"version" yaml:"version"`
	Prerelease bool   `json:"prerelease,omitzero" yaml:"prerelease"`
}

// VersionInfo is the version-related part of a recipe's metadata.
// It is the only part of a node the refresh step replaces.
type VersionInfo struct {
	Version    string               `json:"version"`
	Method     DiscoveryMethod      `json:"method"`
	Candidates map[string]Candidate `json:"candidates,omitempty"`
}

// RecipeInfo is everything a metadata provider reports for one recipe.
type RecipeInfo struct {
	Path         string
	Dependencies []RecipeID
	VersionInfo
}

// PackageNode is one recipe in a PackageGraph.
type PackageNode struct {
	ID           RecipeID    `json:"id"`
	Path         string      `json:"path"`
	Info         VersionInfo `json:"info"`
	Dependencies []RecipeID  `json:"dependencies,omitempty"`
	Parents      []RecipeID  `json:"parents,omitempty"`
}

// NewPackageNode creates a node for id from provider metadata.
func NewPackageNode(id RecipeID, info RecipeInfo) *PackageNode {
	return &PackageNode{
		ID:           id,
		Path:         info.Path,
		Info:         info.VersionInfo,
		Dependencies: slices.Clone(info.Dependencies),
	}
}

// AddParent records parent as a direct dependent of n.
// It reports whether the parent was new.
func (n *PackageNode) AddParent(parent RecipeID) bool {
	if slices.Contains(n.Parents, parent) {
		return false
	}
	n.Parents = append(n.Parents, parent)
	return true
}

// CandidateVersions returns the candidate version keys in sorted order.
func (n *PackageNode) CandidateVersions() []string {
	keys := make([]string, 0, len(n.Info.Candidates))
	for k := range n.Info.Candidates {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
