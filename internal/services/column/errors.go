package column

import "errors"

// Column-related errors
var (
	// Validation errors
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 50 characters")
	ErrInvalidColumnID  = errors.New("invalid column ID")
	ErrInvalidDirection = errors.New("direction must be left or right")

	// Business logic errors
	ErrColumnNotFound = errors.New("column not found")
)
