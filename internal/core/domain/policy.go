package domain

import (
	"slices"
	"strconv"

	"github.com/hashicorp/go-version"
	"go.trai.ch/zerr"
)

// Policy holds the flags that gate which candidate may become the new pin.
type Policy struct {
	AllowMajor      bool
	AllowPrerelease bool
}

// NextVersion decides which version node should be pinned to next.
// When no candidate qualifies the current version is returned unchanged.
func NextVersion(node *PackageNode, p Policy) (string, error) {
	current := node.Info.Version

	if node.Info.Method == MethodSingleLatest {
		if keys := node.CandidateVersions(); len(keys) > 0 {
			return node.Info.Candidates[keys[0]].Version, nil
		}
		return current, nil
	}

	cur, err := parseVersion(node.ID, current)
	if err != nil {
		return "", err
	}
	boundary := NextMajor(cur)

	var (
		best        *version.Version
		bestVersion string
	)
	for _, key := range node.CandidateVersions() {
		c := node.Info.Candidates[key]
		if c.Prerelease && !p.AllowPrerelease {
			continue
		}
		v, err := parseVersion(node.ID, c.Version)
		if err != nil {
			return "", err
		}
		if !p.AllowMajor && !v.LessThan(boundary) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best, bestVersion = v, c.Version
		}
	}

	if best == nil || !best.GreaterThan(cur) {
		return current, nil
	}
	return bestVersion, nil
}

// NextMajor returns the version with the leading component incremented and the rest zeroed.
func NextMajor(v *version.Version) *version.Version {
	return version.Must(version.NewVersion(strconv.Itoa(v.Segments()[0] + 1)))
}

// CompareVersions orders two version strings by their numeric components, prereleases before releases.
// Missing trailing components count as zero.
func CompareVersions(a, b string) (int, error) {
	va, err := version.NewVersion(a)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(ErrInvalidVersion, err.Error()), "version", a)
	}
	vb, err := version.NewVersion(b)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(ErrInvalidVersion, err.Error()), "version", b)
	}
	return va.Compare(vb), nil
}

// SortVersions sorts version strings ascending. Unparseable strings sort last, lexically.
func SortVersions(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		va, errA := version.NewVersion(a)
		vb, errB := version.NewVersion(b)
		switch {
		case errA != nil && errB != nil:
			if a < b {
				return -1
			}
			if a > b {
				return 1
			}
			return 0
		case errA != nil:
			return 1
		case errB != nil:
			return -1
		}
		return va.Compare(vb)
	})
}

func parseVersion(id RecipeID, s string) (*version.Version, error) {
	v, err := version.NewVersion(s)
	if err != nil {
		verr := zerr.With(zerr.Wrap(ErrInvalidVersion, err.Error()), "package", id.String())
		return nil, zerr.With(verr, "version", s)
	}
	return v, nil
}

// IsPrerelease reports whether v parses as a version carrying a prerelease suffix.
func IsPrerelease(v string) bool {
	sv, err := version.NewVersion(v)
	return err == nil && sv.Prerelease() != ""
}
