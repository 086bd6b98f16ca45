package service

import "errors"

// Sentinel errors shared by every service. Handlers map them to HTTP codes
// in one place; services wrap them with fmt.Errorf("%w: detail", ...).
var (
	ErrUnauthorized      = errors.New("unauthorized")       // 401
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrNotFound          = errors.New("not found")          // 404
	ErrValidation        = errors.New("validation")         // 400
	ErrConflict          = errors.New("conflict")           // 409
	ErrInsufficientStock = errors.New("insufficient stock") // 409
	ErrInvalidTransition = errors.New("invalid transition") // 409
)
