package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/motoloc/motocrm/internal/services/dashboard"
	"github.com/motoloc/motocrm/internal/services/export"
)

func (s *Server) dashboard(c echo.Context) error {
	var opts dashboard.Options
	for param, dst := range map[string]*int{
		"week_offset":            &opts.WeekOffset,
		"month_offset":           &opts.MonthOffset,
		"qualified_month_offset": &opts.QualifiedMonthOffset,
	} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badRequest(param + " must be a non-negative integer")
		}
		*dst = n
	}

	summary, err := s.app.Dashboard.Summary(c.Request().Context(), userID(c), opts)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// exportRequest is the body of the export endpoints. Dates are YYYY-MM-DD in
// the configured timezone.
type exportRequest struct {
	Date     export.DateMode `json:"date"`
	Start    string          `json:"start"`
	End      string          `json:"end"`
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	ColumnID string          `json:"column_id"`
	TagIDs   []string        `json:"tag_ids"`
	Fields   []string        `json:"fields"`
}

const dateLayout = "2006-01-02"

func (s *Server) bindExport(c echo.Context) (export.Filter, []export.Field, error) {
	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return export.Filter{}, nil, badRequest("invalid request body")
	}

	f := export.Filter{
		Date:     req.Date,
		Name:     req.Name,
		Phone:    req.Phone,
		ColumnID: req.ColumnID,
		TagIDs:   req.TagIDs,
	}
	for _, d := range []struct {
		raw string
		dst **time.Time
	}{{req.Start, &f.Start}, {req.End, &f.End}} {
		if d.raw == "" {
			continue
		}
		t, err := time.ParseInLocation(dateLayout, d.raw, s.app.Location)
		if err != nil {
			return f, nil, badRequest("dates must be YYYY-MM-DD")
		}
		*d.dst = &t
	}

	fields, err := export.ParseFields(req.Fields)
	if err != nil {
		return f, nil, err
	}
	return f, fields, nil
}

func (s *Server) exportCount(c echo.Context) error {
	f, _, err := s.bindExport(c)
	if err != nil {
		return err
	}
	n, err := s.app.Export.Count(c.Request().Context(), userID(c), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int{"count": n})
}

type exportFunc func(ctx context.Context, w io.Writer, userID string, f export.Filter, fields []export.Field) (int, error)

// sendExport renders into memory first so failures still produce a JSON
// error instead of a truncated download
func (s *Server) sendExport(c echo.Context, render exportFunc, ext, contentType string) error {
	f, fields, err := s.bindExport(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	n, err := render(c.Request().Context(), &buf, userID(c), f, fields)
	if err != nil {
		return err
	}

	name := export.FileName(time.Now().In(s.app.Location), ext)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Response().Header().Set("X-Lead-Count", strconv.Itoa(n))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func (s *Server) exportCSV(c echo.Context) error {
	return s.sendExport(c, s.app.Export.CSV, "csv", "text/csv; charset=utf-8")
}

func (s *Server) exportPDF(c echo.Context) error {
	return s.sendExport(c, s.app.Export.PDF, "pdf", "application/pdf")
}
