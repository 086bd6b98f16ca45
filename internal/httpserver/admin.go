package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/middleware/auth"
	"github.com/avdeenkov/marketplace/internal/service"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	stats, err := h.Svc.Stats(c.Request().Context(), caller)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
