package ports

import "go.trai.ch/bump/internal/core/settings"

// SettingsLoader applies a settings file to a store.
//
//go:generate mockgen -source=settings_loader.go -destination=mocks/mock_settings_loader.go -package=mocks
type SettingsLoader interface {
	// Apply reads path and installs every value it holds as an override in store.
	// A missing file is an error only when required is true.
	Apply(store *settings.Store, path string, required bool) error
}
