package cli

import (
	"errors"
	"fmt"

	"github.com/motoloc/motocrm/internal/auth"
	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/services/card"
	"github.com/motoloc/motocrm/internal/services/chat"
	"github.com/motoloc/motocrm/internal/services/column"
	"github.com/motoloc/motocrm/internal/services/export"
	"github.com/motoloc/motocrm/internal/services/followup"
	"github.com/motoloc/motocrm/internal/services/tag"
	"github.com/motoloc/motocrm/internal/services/theme"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, network errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or a missing --user.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Lead, column, tag, contact, session or user not found,
	// and exports with no matching leads.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Unreadable theme files or chat payloads.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty names, bad colors, bad dates, bad delay units,
	// or a move past the first or last column.
	ExitValidation = 5
)

// ExitCodeError carries the process exit code chosen for a failed command
type ExitCodeError struct {
	Code int
	Err  error
}

func (e *ExitCodeError) Error() string { return e.Err.Error() }

func (e *ExitCodeError) Unwrap() error { return e.Err }

// exitClass groups sentinel errors under an exit code and a stable code name
type exitClass struct {
	exit int
	code string
	errs []error
}

var exitClasses = []exitClass{
	{ExitUsage, "USAGE", []error{ErrNoUser}},
	{ExitNotFound, "NOT_FOUND", []error{
		auth.ErrUserNotFound, database.ErrNotFound,
		card.ErrCardNotFound, card.ErrColumnNotFound, card.ErrTagNotFound,
		column.ErrColumnNotFound, tag.ErrTagNotFound,
		followup.ErrFollowUpNotFound, followup.ErrContactNotFound,
		chat.ErrSessionNotFound, export.ErrNoLeads,
	}},
	{ExitDataErr, "DATA_ERROR", []error{theme.ErrInvalidFile, chat.ErrInvalidMessage}},
	{ExitValidation, "VALIDATION_ERROR", []error{
		auth.ErrInvalidEmail, auth.ErrWeakPassword, auth.ErrEmailTaken, auth.ErrInvalidCredentials,
		database.ErrDuplicate,
		models.ErrAlreadyFirstColumn, models.ErrAlreadyLastColumn,
		card.ErrEmptyName, card.ErrNameTooLong, card.ErrInvalidVisitDate, card.ErrInvalidDirection,
		column.ErrEmptyName, column.ErrNameTooLong, column.ErrInvalidDirection,
		tag.ErrEmptyName, tag.ErrNameTooLong, tag.ErrInvalidColor,
		followup.ErrEmptyName, followup.ErrNegativeDelay, followup.ErrInvalidDelayUnit,
		followup.ErrEmptyPhone, followup.ErrInvalidIdx, followup.ErrContactFinished,
		theme.ErrInvalidColor, theme.ErrInvalidMode,
		chat.ErrEmptySessionID,
		export.ErrInvalidDateMode, export.ErrInvalidRange, export.ErrInvalidField,
	}},
}

// ExitCode picks the exit code for err
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitCodeError
	if errors.As(err, &ee) {
		return ee.Code
	}
	for _, class := range exitClasses {
		for _, target := range class.errs {
			if errors.Is(err, target) {
				return class.exit
			}
		}
	}
	return ExitError
}

// ErrorCode names the category of err for JSON output
func ErrorCode(err error) string {
	code := ExitCode(err)
	for _, class := range exitClasses {
		if class.exit == code {
			return class.code
		}
	}
	return "ERROR"
}

// Exitf wraps a formatted error with an explicit exit code
func Exitf(code int, format string, args ...any) error {
	return &ExitCodeError{Code: code, Err: fmt.Errorf(format, args...)}
}
