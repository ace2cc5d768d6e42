package card

import "errors"

// Card-related errors
var (
	// Validation errors
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 120 characters")
	ErrInvalidCardID    = errors.New("invalid card ID")
	ErrInvalidColumnID  = errors.New("invalid column ID")
	ErrInvalidTagID     = errors.New("invalid tag ID")
	ErrInvalidVisitDate = errors.New("visit date must be YYYY-MM-DD")
	ErrInvalidDirection = errors.New("direction must be left or right")

	// Business logic errors
	ErrCardNotFound   = errors.New("card not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrTagNotFound    = errors.New("tag not found")
)
