package order

import "restopos/internal/apperror"

var (
	ErrOrderNotFound    = apperror.NotFound("order not found")
	ErrInvalidOrderType = apperror.Validation("invalid order type")
	ErrInvalidStatus    = apperror.Validation("invalid order status")
	ErrInvalidItem      = apperror.Validation("order item needs a menu item and a quantity greater than zero")
	ErrNegativeAmount   = apperror.Validation("monetary amounts must not be negative")
	ErrActorRequired    = apperror.Validation("an acting user is required")
)
