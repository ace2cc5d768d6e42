package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/services/theme"
)

// ============================================================================
// Theme
// ============================================================================

func (s *Server) getTheme(c echo.Context) error {
	ts, err := s.app.Themes.Get(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ts)
}

func (s *Server) saveTheme(c echo.Context) error {
	var ts models.ThemeSettings
	if err := c.Bind(&ts); err != nil {
		return badRequest("invalid request body")
	}
	ts.UserID = userID(c)
	saved, err := s.app.Themes.Save(c.Request().Context(), &ts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}

func (s *Server) resetTheme(c echo.Context) error {
	if err := s.app.Themes.Reset(c.Request().Context(), userID(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// themeCSS returns the variables of one mode as JSON, or the full
// stylesheet when no mode is given
func (s *Server) themeCSS(c echo.Context) error {
	ctx, uid := c.Request().Context(), userID(c)
	mode := c.QueryParam("mode")
	if mode == "" {
		css, err := s.app.Themes.Stylesheet(ctx, uid)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(css))
	}

	vars, err := s.app.Themes.CSSVariables(ctx, uid, theme.Mode(mode))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vars)
}

// ============================================================================
// Chat
// ============================================================================

type chatMessageRequest struct {
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func (s *Server) listChatSessions(c echo.Context) error {
	sessions, err := s.app.Chat.Sessions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessions)
}

func (s *Server) getChatSession(c echo.Context) error {
	id, err := url.PathUnescape(c.Param("id"))
	if err != nil {
		return badRequest("invalid session id")
	}
	sess, err := s.app.Chat.Session(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) appendChatMessage(c echo.Context) error {
	var req chatMessageRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	m, err := s.app.Chat.Append(c.Request().Context(), req.SessionID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}
