package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) signUp(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	user, err := s.app.Auth.SignUp(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) signIn(c echo.Context) error {
	var req credentials
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	sess, err := s.app.Auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) signOut(c echo.Context) error {
	token, err := requestToken(c, false)
	if err != nil {
		return err
	}
	if err := s.app.Auth.SignOut(c.Request().Context(), token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) me(c echo.Context) error {
	user, err := s.app.Auth.CurrentUser(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
