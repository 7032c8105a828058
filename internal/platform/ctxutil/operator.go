package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type operatorKey struct{}

// Operator is the authenticated admin behind a request.
type Operator struct {
	UserID    uuid.UUID
	Email     string
	SessionID uuid.UUID
}

func WithOperator(ctx context.Context, op *Operator) context.Context {
	return context.WithValue(ctx, operatorKey{}, op)
}

func GetOperator(ctx context.Context) *Operator {
	if ctx == nil {
		return nil
	}
	if op, ok := ctx.Value(operatorKey{}).(*Operator); ok {
		return op
	}
	return nil
}
