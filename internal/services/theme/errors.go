package theme

import "errors"

// Theme-related errors
var (
	ErrInvalidColor = errors.New("invalid color format (must be hex color like #002736)")
	ErrInvalidMode  = errors.New("mode must be light or dark")
	ErrInvalidFile  = errors.New("invalid theme file")
)
