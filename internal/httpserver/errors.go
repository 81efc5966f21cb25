package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neuronotes/internal/service"
)

// mapError turns a service error into an HTTP error. msg replaces the
// default text for 4xx responses when set.
func mapError(err error, msg string) error {
	code, text := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, service.ErrValidation):
		code, text = http.StatusBadRequest, "invalid request"
	case errors.Is(err, service.ErrConflict):
		code, text = http.StatusBadRequest, "Username already taken"
	case errors.Is(err, service.ErrUnauthorized):
		code, text = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrNotFound):
		code, text = http.StatusNotFound, "Note not found"
	case errors.Is(err, service.ErrNLP):
		code, text = http.StatusBadGateway, "text model failed"
	}
	if msg != "" && code < 500 {
		text = msg
	}
	return echo.NewHTTPError(code, text).SetInternal(err)
}
