package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/middleware/auth"
	"github.com/avdeenkov/marketplace/internal/service"
	"github.com/avdeenkov/marketplace/internal/transport"
	"github.com/avdeenkov/marketplace/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.GetProducts(ctx, offset, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, transport.ProductPage{
		Data: items,
		Meta: transport.NewPageMeta(page, limit, total),
	})
}

func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, transport.ProductPage{
		Data: items,
		Meta: transport.NewPageMeta(page, limit, total),
	})
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad body", "error", err)
		return badRequest(c, "invalid body")
	}

	product, err := h.Svc.CreateProduct(ctx, caller, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad body", "error", err)
		return badRequest(c, "invalid body")
	}

	product, err := h.Svc.PatchProduct(ctx, caller, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	if err := h.Svc.DeleteProduct(ctx, caller, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
