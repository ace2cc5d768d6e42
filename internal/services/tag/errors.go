package tag

import "errors"

// Tag-related errors
var (
	// Validation errors
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrNameTooLong  = errors.New("name cannot exceed 50 characters")
	ErrInvalidColor = errors.New("invalid color format (must be hex color like #3b82f6)")
	ErrInvalidTagID = errors.New("invalid tag ID")

	// Business logic errors
	ErrTagNotFound = errors.New("tag not found")
)
