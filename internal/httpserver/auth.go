package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/models"
	"github.com/avdeenkov/marketplace/internal/service"
	"github.com/avdeenkov/marketplace/internal/transport"
	"github.com/avdeenkov/marketplace/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad body", "error", err)
		return badRequest(c, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad body", "error", err)
		return badRequest(c, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, transport.TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "refresh_token required")
	}

	res, err := h.Svc.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, transport.TokenPair{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return badRequest(c, "refresh_token required")
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
