package settings

import "go.trai.ch/zerr"

var (
	// ErrInvalidValue is returned when a raw value cannot be converted to its entry's kind.
	ErrInvalidValue = zerr.New("invalid setting value")

	// ErrCircularReference is returned when template tokens reference each other in a loop.
	ErrCircularReference = zerr.New("circular setting reference")
)
