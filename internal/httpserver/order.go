package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/middleware/auth"
	"github.com/avdeenkov/marketplace/internal/service"
	"github.com/avdeenkov/marketplace/internal/transport"
	"github.com/avdeenkov/marketplace/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad body", "error", err)
		return badRequest(c, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, caller, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad body", "error", err)
		return badRequest(c, "invalid body")
	}

	order, err := h.Svc.Checkout(ctx, caller, req.Address)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	order, err := h.Svc.GetOrder(ctx, caller, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}

	_, offset, limit := pageParams(c)
	orders, err := h.Svc.ListOrders(ctx, caller, offset, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) PayOrder(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	order, err := h.Svc.PayOrder(ctx, caller, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	order, err := h.Svc.CancelOrder(ctx, caller, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) RefundOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.refund")

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	var req transport.RefundRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("bad body", "error", err)
		return badRequest(c, "invalid body")
	}

	order, err := h.Svc.RefundOrder(ctx, caller, id, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ShipOrder(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	var req transport.ShipOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	order, err := h.Svc.ShipOrder(ctx, caller, id, req.TrackingNo)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeliverOrder(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	order, err := h.Svc.DeliverOrder(ctx, caller, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()

	caller, ok := auth.IdentityFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	payments, err := h.Svc.ListPayments(ctx, caller, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}
