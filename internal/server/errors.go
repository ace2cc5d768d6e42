package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

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

// errorResponse is the JSON body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

var statusByError = []struct {
	status int
	errs   []error
}{
	{http.StatusUnauthorized, []error{
		auth.ErrInvalidCredentials, auth.ErrMissingToken, auth.ErrInvalidToken, auth.ErrTokenRevoked,
	}},
	{http.StatusConflict, []error{
		auth.ErrEmailTaken, database.ErrDuplicate, followup.ErrContactFinished,
		models.ErrAlreadyFirstColumn, models.ErrAlreadyLastColumn,
	}},
	{http.StatusNotFound, []error{
		auth.ErrUserNotFound, database.ErrNotFound,
		card.ErrCardNotFound, card.ErrColumnNotFound, card.ErrTagNotFound,
		column.ErrColumnNotFound, tag.ErrTagNotFound,
		followup.ErrFollowUpNotFound, followup.ErrContactNotFound,
		chat.ErrSessionNotFound, export.ErrNoLeads,
	}},
	{http.StatusBadRequest, []error{
		auth.ErrInvalidEmail, auth.ErrWeakPassword,
		card.ErrEmptyName, card.ErrNameTooLong, card.ErrInvalidCardID, card.ErrInvalidColumnID,
		card.ErrInvalidTagID, card.ErrInvalidVisitDate, card.ErrInvalidDirection,
		column.ErrEmptyName, column.ErrNameTooLong, column.ErrInvalidColumnID, column.ErrInvalidDirection,
		tag.ErrEmptyName, tag.ErrNameTooLong, tag.ErrInvalidColor, tag.ErrInvalidTagID,
		followup.ErrInvalidFollowUpID, followup.ErrInvalidContactID, followup.ErrEmptyName,
		followup.ErrNegativeDelay, followup.ErrInvalidDelayUnit, followup.ErrEmptyPhone, followup.ErrInvalidIdx,
		theme.ErrInvalidColor, theme.ErrInvalidMode, theme.ErrInvalidFile,
		chat.ErrEmptySessionID, chat.ErrInvalidMessage,
		export.ErrInvalidDateMode, export.ErrInvalidRange, export.ErrInvalidField,
	}},
}

// badRequest reports malformed input detected by a handler
func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// httpError maps an error to a status code and a client-safe message
func httpError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}
	for _, group := range statusByError {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status, err.Error()
			}
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, msg := httpError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Request().Method, "uri", redactedURI(c.Request().URL), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, errorResponse{Error: msg})
	}
	if err != nil {
		s.logger.Error("failed to write error response", "error", err)
	}
}
