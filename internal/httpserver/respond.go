package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/avdeenkov/marketplace/internal/service"
	"github.com/avdeenkov/marketplace/internal/util"
	"github.com/avdeenkov/marketplace/pkg/logging"
)

type errorBody struct {
	Message string `json:"message"`
}

// fail maps service sentinel errors onto HTTP codes. Unexpected errors are
// logged and surfaced as a generic message.
func fail(c echo.Context, err error) error {
	var (
		status  int
		message = err.Error()
	)
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrInvalidTransition):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
		logging.FromContext(c.Request().Context()).Error("unhandled error", "error", err)
	}
	return c.JSON(status, errorBody{Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Message: message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorBody{Message: "unauthenticated"})
}

func pathID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

func pageParams(c echo.Context) (page int, offset, limit int) {
	page = intQuery(c, "page", 1)
	size := intQuery(c, "size", util.DefaultPageSize)
	offset, limit = util.Calculate(page, size)
	return page, offset, limit
}

func intQuery(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
