package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/services/followup"
)

type updateFollowUpRequest struct {
	Name       *string           `json:"name"`
	Message    *string           `json:"message"`
	DelayValue *int              `json:"delay_value"`
	DelayUnit  *models.DelayUnit `json:"delay_unit"`
}

type contactRequest struct {
	Phone    string  `json:"phone"`
	Name     string  `json:"name"`
	WhatsApp *string `json:"whatsapp"`
	CardID   *string `json:"card_id"`
}

type sentRequest struct {
	Idx int `json:"idx"`
}

func (s *Server) listFollowUps(c echo.Context) error {
	list, err := s.app.FollowUps.ListFollowUps(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) updateFollowUp(c echo.Context) error {
	var req updateFollowUpRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	updated, err := s.app.FollowUps.UpdateFollowUp(c.Request().Context(), followup.UpdateFollowUpRequest{
		UserID:     userID(c),
		ID:         c.Param("id"),
		Name:       req.Name,
		Message:    req.Message,
		DelayValue: req.DelayValue,
		DelayUnit:  req.DelayUnit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) toggleFollowUp(c echo.Context) error {
	toggled, err := s.app.FollowUps.ToggleFollowUp(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toggled)
}

func (s *Server) dueFollowUps(c echo.Context) error {
	due, err := s.app.FollowUps.Due(c.Request().Context(), userID(c), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, due)
}

func (s *Server) listContacts(c echo.Context) error {
	openOnly, _ := strconv.ParseBool(c.QueryParam("open"))
	list, err := s.app.FollowUps.ListContacts(c.Request().Context(), userID(c), openOnly)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) upsertContact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	contact, err := s.app.FollowUps.UpsertContact(c.Request().Context(), followup.UpsertContactRequest{
		UserID:   userID(c),
		Phone:    req.Phone,
		Name:     req.Name,
		WhatsApp: req.WhatsApp,
		CardID:   req.CardID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contact)
}

func (s *Server) markContactSent(c echo.Context) error {
	var req sentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	if err := s.app.FollowUps.MarkSent(c.Request().Context(), userID(c), c.Param("id"), req.Idx, time.Now()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) finishContact(c echo.Context) error {
	if err := s.app.FollowUps.FinishContact(c.Request().Context(), userID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
