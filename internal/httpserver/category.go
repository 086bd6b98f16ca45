package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/middleware/auth"
	"github.com/avdeenkov/marketplace/internal/service"
	"github.com/avdeenkov/marketplace/internal/transport"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	cat, err := h.Svc.GetCategory(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) ListCategories(c echo.Context) error {
	cats, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(c.Request().Context(), caller, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) PatchCategory(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid category id")
	}

	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	cat, err := h.Svc.PatchCategory(c.Request().Context(), caller, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid category id")
	}
	if err := h.Svc.DeleteCategory(c.Request().Context(), caller, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
