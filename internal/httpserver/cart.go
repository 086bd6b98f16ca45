package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/middleware/auth"
	"github.com/avdeenkov/marketplace/internal/service"
	"github.com/avdeenkov/marketplace/internal/transport"
	"github.com/avdeenkov/marketplace/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := h.Svc.GetCart(ctx, caller.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req transport.CartAddRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad body", "error", err)
		return badRequest(c, "invalid body")
	}

	item, err := h.Svc.AddToCart(ctx, caller.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// RemoveFromCart decrements one product line; query param quantity defaults
// to 1.
func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return badRequest(c, "invalid product id")
	}
	quantity := intQuery(c, "quantity", 1)

	item, err := h.Svc.RemoveFromCart(ctx, caller.UserID, productID, quantity)
	if err != nil {
		return fail(c, err)
	}
	if item == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	if err := h.Svc.ClearCart(ctx, caller.UserID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
