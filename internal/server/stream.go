package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/motoloc/motocrm/internal/events"
)

// streamEvents relays the user's change events as Server-Sent Events
func (s *Server) streamEvents(c echo.Context) error {
	if s.hub == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "live updates are disabled")
	}

	ctx := c.Request().Context()
	sub, err := s.hub.Subscribe(ctx, userID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	defer sub.Close()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := writeSSE(w, msg); err != nil {
				return nil // client went away
			}
			w.Flush()
		}
	}
}

func writeSSE(w *echo.Response, msg events.Message) error {
	if msg.Event == nil {
		_, err := fmt.Fprintf(w, ": %s\n\n", msg.Type)
		return err
	}
	data, err := json.Marshal(msg.Event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", msg.Event.SequenceID, msg.Event.Type, data)
	return err
}

func (s *Server) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := s.app.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) metrics(c echo.Context) error {
	if s.hub == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event hub is not running")
	}
	return c.JSON(http.StatusOK, s.hub.Metrics())
}
