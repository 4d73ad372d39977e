// Package config provides the built-in settings catalog and the settings file loader for bump.
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"

	"go.trai.ch/bump/internal/core/ports"
	"go.trai.ch/bump/internal/core/settings"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.SettingsLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

var _ ports.SettingsLoader = (*Loader)(nil)

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads a settings file from the given path.
func Load(path string) (*Settingsfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read settings file")
	}

	var file Settingsfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse settings file")
	}
	if file.Version != "" && file.Version != "1" {
		return nil, zerr.With(zerr.Wrap(ErrUnsupportedVersion, "cannot load settings file"), "version", file.Version)
	}
	return &file, nil
}

// Apply installs every setting of the file at path as an override, in name order.
func (l *Loader) Apply(store *settings.Store, path string, required bool) error {
	file, err := Load(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(err, "path", path)
	}

	names := make([]string, 0, len(file.Settings))
	for name := range file.Settings {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		value := file.Settings[name]
		switch value.(type) {
		case map[string]any, []any:
			return zerr.With(zerr.With(zerr.Wrap(ErrUnsupportedValue, "settings must be scalars"), "setting", name), "path", path)
		}
		if _, ok := store.Lookup(name); !ok {
			l.logger.Warn("unknown setting", "setting", name, "path", path)
		}
		store.Set(name, value)
	}
	return nil
}

// ParseAssignment splits a "name=value" override.
func ParseAssignment(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", zerr.With(zerr.Wrap(ErrInvalidAssignment, "expected name=value"), "assignment", s)
	}
	return name, value, nil
}
