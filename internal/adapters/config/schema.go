package config

// Settingsfile represents the structure of the bump.yaml settings file.
type Settingsfile struct {
	Version  string         `yaml:"version"`
	Settings map[string]any `yaml:"settings"`
}
