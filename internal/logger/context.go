package logger

import (
	"context"

	"restopos/internal/utils"

	"go.uber.org/zap"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromCtx returns the global logger tagged with the request id and the acting
// user carried by ctx, when there are any.
func FromCtx(ctx context.Context) *zap.Logger {
	fields := make([]zap.Field, 0, 3)

	if reqID := RequestIDFrom(ctx); reqID != "" {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if actorID, ok := utils.GetUserIDFromContext(ctx); ok {
		fields = append(fields, zap.Uint("actor_id", actorID))
		if role := utils.GetUserRoleFromContext(ctx); role != "" {
			fields = append(fields, zap.String("actor_role", role))
		}
	}

	if len(fields) == 0 {
		return L()
	}
	return L().With(fields...)
}
