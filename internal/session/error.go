package session

import "restopos/internal/apperror"

var (
	ErrSessionNotFound     = apperror.NotFound("session not found")
	ErrActiveSessionExists = apperror.Conflict("user already has an active session")
	ErrInvalidStatus       = apperror.Validation("invalid session status")
	ErrNegativeAmount      = apperror.Validation("balances and totals must not be negative")
	ErrEndBeforeStart      = apperror.Validation("end_time must not be before start_time")
	ErrActorRequired       = apperror.Validation("an acting user is required")
)
