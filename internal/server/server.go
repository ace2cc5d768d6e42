package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/motoloc/motocrm/internal/app"
	"github.com/motoloc/motocrm/internal/events"
)

// ShutdownTimeout bounds the graceful shutdown of open requests
const ShutdownTimeout = 5 * time.Second

// Server is the HTTP API over the application services
type Server struct {
	app    *app.App
	hub    *events.Hub
	echo   *echo.Echo
	logger *slog.Logger
}

// New builds the router. hub may be nil, in which case the event stream and
// metrics endpoints report 503.
func New(a *app.App, hub *events.Hub) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{app: a, hub: hub, echo: e, logger: slog.Default()}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	if origins := a.Config.Server.AllowedOrigins; len(origins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		}))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.GET("/healthz", s.health)
	e.GET("/metrics", s.metrics)

	api := e.Group("/api")
	api.POST("/auth/signup", s.signUp)
	api.POST("/auth/signin", s.signIn)

	authed := api.Group("", requireAuth(s.app.Auth))
	authed.POST("/auth/signout", s.signOut)
	authed.GET("/me", s.me)

	authed.GET("/columns", s.listColumns)
	authed.POST("/columns", s.createColumn)
	authed.PATCH("/columns/:id", s.renameColumn)
	authed.DELETE("/columns/:id", s.deleteColumn)
	authed.POST("/columns/:id/move", s.moveColumn)

	authed.GET("/cards", s.listCards)
	authed.POST("/cards", s.createCard)
	authed.GET("/cards/:id", s.getCard)
	authed.PATCH("/cards/:id", s.updateCard)
	authed.DELETE("/cards/:id", s.deleteCard)
	authed.POST("/cards/:id/move", s.moveCard)
	authed.GET("/cards/:id/tags", s.listCardTags)
	authed.POST("/cards/:id/tags/:tagId", s.addCardTag)
	authed.DELETE("/cards/:id/tags/:tagId", s.removeCardTag)
	authed.GET("/card-tags", s.cardTagMap)

	authed.GET("/tags", s.listTags)
	authed.POST("/tags", s.createTag)
	authed.PATCH("/tags/:id", s.updateTag)
	authed.DELETE("/tags/:id", s.deleteTag)

	authed.GET("/followups", s.listFollowUps)
	authed.GET("/followups/due", s.dueFollowUps)
	authed.PATCH("/followups/:id", s.updateFollowUp)
	authed.POST("/followups/:id/toggle", s.toggleFollowUp)
	authed.GET("/contacts", s.listContacts)
	authed.PUT("/contacts", s.upsertContact)
	authed.POST("/contacts/:id/sent", s.markContactSent)
	authed.POST("/contacts/:id/finish", s.finishContact)

	authed.GET("/theme", s.getTheme)
	authed.PUT("/theme", s.saveTheme)
	authed.DELETE("/theme", s.resetTheme)
	authed.GET("/theme/css", s.themeCSS)

	authed.GET("/chat/sessions", s.listChatSessions)
	authed.GET("/chat/sessions/:id", s.getChatSession)
	authed.POST("/chat/messages", s.appendChatMessage)

	authed.GET("/dashboard", s.dashboard)

	authed.POST("/export/count", s.exportCount)
	authed.POST("/export/csv", s.exportCSV)
	authed.POST("/export/pdf", s.exportPDF)

	api.GET("/events", s.streamEvents, requireStreamAuth(s.app.Auth))
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	slog.Info("http server shutting down")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
