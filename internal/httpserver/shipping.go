package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/middleware/auth"
	"github.com/avdeenkov/marketplace/internal/service"
)

type ShippingHTTP struct {
	Svc *service.ShippingService
}

// EstimateShipping prices the caller's cart for the requested method.
func (h *ShippingHTTP) EstimateShipping(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	method := c.QueryParam("method")
	if method == "" {
		method = "standard"
	}

	estimate, err := h.Svc.EstimateForCart(ctx, caller.UserID, method)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, estimate)
}
