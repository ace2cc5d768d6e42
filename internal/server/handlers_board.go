package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/services/card"
	"github.com/motoloc/motocrm/internal/services/tag"
)

// ============================================================================
// Columns
// ============================================================================

type columnRequest struct {
	Name string `json:"name"`
}

type moveRequest struct {
	Direction models.Direction `json:"direction"`
	ColumnID  string           `json:"column_id"`
}

func (s *Server) listColumns(c echo.Context) error {
	cols, err := s.app.Columns.ListColumns(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cols)
}

func (s *Server) createColumn(c echo.Context) error {
	var req columnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	col, err := s.app.Columns.CreateColumn(c.Request().Context(), userID(c), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, col)
}

func (s *Server) renameColumn(c echo.Context) error {
	var req columnRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	ctx, uid, id := c.Request().Context(), userID(c), c.Param("id")
	if err := s.app.Columns.RenameColumn(ctx, uid, id, req.Name); err != nil {
		return err
	}
	col, err := s.app.Columns.GetColumn(ctx, uid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, col)
}

func (s *Server) deleteColumn(c echo.Context) error {
	if err := s.app.Columns.DeleteColumn(c.Request().Context(), userID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) moveColumn(c echo.Context) error {
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	ctx, uid := c.Request().Context(), userID(c)
	if err := s.app.Columns.MoveColumn(ctx, uid, c.Param("id"), req.Direction); err != nil {
		return err
	}
	cols, err := s.app.Columns.ListColumns(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cols)
}

// ============================================================================
// Cards
// ============================================================================

type createCardRequest struct {
	ColumnID  string   `json:"column_id"`
	Name      string   `json:"name"`
	Phone     *string  `json:"phone"`
	TagID     *string  `json:"tag_id"`
	VisitDate *string  `json:"visit_date"`
	TagIDs    []string `json:"tag_ids"`
}

type updateCardRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	TagID     *string `json:"tag_id"`
	VisitDate *string `json:"visit_date"`
	ColumnID  *string `json:"column_id"`
}

func (s *Server) listCards(c echo.Context) error {
	cards, err := s.app.Cards.ListCards(c.Request().Context(), userID(c), card.ListCardsRequest{
		Search:   c.QueryParam("search"),
		TagID:    c.QueryParam("tag_id"),
		ColumnID: c.QueryParam("column_id"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

func (s *Server) createCard(c echo.Context) error {
	var req createCardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	created, err := s.app.Cards.CreateCard(c.Request().Context(), card.CreateCardRequest{
		UserID:    userID(c),
		ColumnID:  req.ColumnID,
		Name:      req.Name,
		Phone:     req.Phone,
		TagID:     req.TagID,
		VisitDate: req.VisitDate,
		TagIDs:    req.TagIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) getCard(c echo.Context) error {
	got, err := s.app.Cards.GetCard(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, got)
}

func (s *Server) updateCard(c echo.Context) error {
	var req updateCardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	updated, err := s.app.Cards.UpdateCard(c.Request().Context(), card.UpdateCardRequest{
		UserID:    userID(c),
		ID:        c.Param("id"),
		Name:      req.Name,
		Phone:     req.Phone,
		TagID:     req.TagID,
		VisitDate: req.VisitDate,
		ColumnID:  req.ColumnID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteCard(c echo.Context) error {
	if err := s.app.Cards.DeleteCard(c.Request().Context(), userID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// moveCard moves to an explicit column_id, or to the neighbouring column
// when a direction is given
func (s *Server) moveCard(c echo.Context) error {
	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	ctx, uid, id := c.Request().Context(), userID(c), c.Param("id")

	var moved *models.Card
	var err error
	switch {
	case req.ColumnID != "":
		moved, err = s.app.Cards.MoveCard(ctx, uid, id, req.ColumnID)
	case req.Direction != "":
		moved, err = s.app.Cards.MoveCardDirection(ctx, uid, id, req.Direction)
	default:
		return badRequest("column_id or direction is required")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moved)
}

func (s *Server) listCardTags(c echo.Context) error {
	tags, err := s.app.Cards.ListCardTags(c.Request().Context(), userID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (s *Server) addCardTag(c echo.Context) error {
	if err := s.app.Cards.AddTag(c.Request().Context(), userID(c), c.Param("id"), c.Param("tagId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) removeCardTag(c echo.Context) error {
	if err := s.app.Cards.RemoveTag(c.Request().Context(), userID(c), c.Param("id"), c.Param("tagId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) cardTagMap(c echo.Context) error {
	m, err := s.app.Cards.CardTagMap(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

// ============================================================================
// Tags
// ============================================================================

type tagRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) listTags(c echo.Context) error {
	tags, err := s.app.Tags.ListTags(c.Request().Context(), userID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

func (s *Server) createTag(c echo.Context) error {
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	created, err := s.app.Tags.CreateTag(c.Request().Context(), tag.CreateTagRequest{
		UserID: userID(c),
		Name:   deref(req.Name),
		Color:  deref(req.Color),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) updateTag(c echo.Context) error {
	var req tagRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	updated, err := s.app.Tags.UpdateTag(c.Request().Context(), tag.UpdateTagRequest{
		UserID: userID(c),
		ID:     c.Param("id"),
		Name:   req.Name,
		Color:  req.Color,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteTag(c echo.Context) error {
	if err := s.app.Tags.DeleteTag(c.Request().Context(), userID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
