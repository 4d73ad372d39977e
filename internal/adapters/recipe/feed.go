package recipe

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/bump/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Feed represents a recipe version feed file.
type Feed struct {
	Method   string             `yaml:"method"`
	Versions []domain.Candidate `yaml:"versions"`
}

// loadFeed reads the feed at path. A missing feed yields nil without error.
func loadFeed(path string) (*Feed, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the configured feeds directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read version feed"), "path", path)
	}

	var feed Feed
	if err := yaml.Unmarshal(data, &feed); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse version feed"), "path", path)
	}
	return &feed, nil
}

// apply merges the feed into info.
// A single-latest feed contributes its first version only.
func (f *Feed) apply(info *domain.VersionInfo) {
	info.Method = domain.NormalizeDiscoveryMethod(f.Method)
	info.Candidates = make(map[string]domain.Candidate, len(f.Versions))
	for _, c := range f.Versions {
		if c.Version == "" {
			continue
		}
		c.Prerelease = c.Prerelease || domain.IsPrerelease(c.Version)
		info.Candidates[c.Version] = c
		if info.Method == domain.MethodSingleLatest {
			break
		}
	}
}
