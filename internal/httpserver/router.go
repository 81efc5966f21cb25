package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Deps struct {
	AuthHandler  *AuthHTTP
	NotesHandler *NotesHTTP
	// Ready reports whether backing stores are reachable.
	Ready func(ctx context.Context) error
}

// NewEcho builds an echo instance with the shared middleware stack.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 90 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, messageView{Message: "NeuroNotes API running!"})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.GET("/me", d.AuthHandler.Me, RequireUser(d.AuthHandler.Svc))

	e.POST("/notes", d.NotesHandler.Create)
	e.GET("/notes", d.NotesHandler.List)
	e.GET("/notes/search", d.NotesHandler.Search)
	e.GET("/notes/:id", d.NotesHandler.Get)
	e.PUT("/notes/:id", d.NotesHandler.Update)
	e.DELETE("/notes/:id", d.NotesHandler.Delete)

	e.POST("/summarize/:id", d.NotesHandler.Summarize)
	e.POST("/tag/:id", d.NotesHandler.AutoTag)
}
