package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/middleware/auth"
	"github.com/avdeenkov/marketplace/internal/service"
)

type NotificationHTTP struct {
	Svc *service.NotificationService
}

func (h *NotificationHTTP) List(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := h.Svc.List(c.Request().Context(), caller.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *NotificationHTTP) MarkRead(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid notification id")
	}

	if err := h.Svc.MarkRead(c.Request().Context(), id, caller.UserID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHTTP) Delete(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid notification id")
	}

	if err := h.Svc.Delete(c.Request().Context(), id, caller.UserID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
