package table

import "restopos/internal/apperror"

var (
	ErrTableNotFound = apperror.NotFound("table not found")
	ErrInvalidStatus = apperror.Validation("invalid table status")
)
