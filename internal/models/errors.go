package models

import "errors"

// Domain-specific errors for movement operations
var (
	// ErrAlreadyFirstColumn indicates the card or column is already leftmost
	ErrAlreadyFirstColumn = errors.New("already in the first column")

	// ErrAlreadyLastColumn indicates the card or column is already rightmost
	ErrAlreadyLastColumn = errors.New("already in the last column")
)
