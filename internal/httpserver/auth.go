package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/neuronotes/internal/logging"
	"github.com/Skotchmaster/neuronotes/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	if err != nil {
		return mapError(err, "")
	}

	l.Info("register_successful", "user_id", user.ID)
	return c.JSON(http.StatusOK, toUserView(user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return mapError(err, "")
	}

	l.Info("login_successful")
	return c.JSON(http.StatusOK, tokenView{AccessToken: res.AccessToken, TokenType: res.TokenType})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized()
	}
	return c.JSON(http.StatusOK, toUserView(user))
}
