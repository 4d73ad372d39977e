package config

import "go.trai.ch/zerr"

var (
	// ErrInvalidAssignment is returned when a command-line override is not of the form name=value.
	ErrInvalidAssignment = zerr.New("invalid setting assignment")

	// ErrUnsupportedValue is returned when a settings file holds a list or a mapping as a value.
	ErrUnsupportedValue = zerr.New("unsupported setting value")

	// ErrUnsupportedVersion is returned when a settings file declares an unknown format version.
	ErrUnsupportedVersion = zerr.New("unsupported settings file version")
)
