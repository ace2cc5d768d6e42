package followup

import "errors"

// Follow-up related errors
var (
	// Validation errors
	ErrInvalidFollowUpID = errors.New("invalid follow-up ID")
	ErrInvalidContactID  = errors.New("invalid contact ID")
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrNegativeDelay     = errors.New("delay cannot be negative")
	ErrInvalidDelayUnit  = errors.New("delay unit must be minutes or days")
	ErrEmptyPhone        = errors.New("phone cannot be empty")
	ErrInvalidIdx        = errors.New("follow-up index must be positive")

	// Business logic errors
	ErrFollowUpNotFound = errors.New("follow-up not found")
	ErrContactNotFound  = errors.New("contact not found")
	ErrContactFinished  = errors.New("contact has finished the follow-up sequence")
)
