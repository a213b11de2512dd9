package scope

import (
	"context"
	"strconv"
)

// Payload is the authenticated caller information carried on the request context.
type Payload struct {
	Subject string
	Role    string
	RtRw    string
}

// PayloadCtxKey is the context key for the authenticated payload.
type PayloadCtxKey struct{}

// SetPayloadToContext sets the payload to context
func SetPayloadToContext(ctx context.Context, payload Payload) context.Context {
	return context.WithValue(ctx, PayloadCtxKey{}, payload)
}

// GetPayloadFromContext gets the payload from context
func GetPayloadFromContext(ctx context.Context) (Payload, bool) {
	payload, ok := ctx.Value(PayloadCtxKey{}).(Payload)
	return payload, ok
}

// GetSubjectIDFromContext gets the numeric subject from context.
func GetSubjectIDFromContext(ctx context.Context) (int64, bool) {
	payload, ok := GetPayloadFromContext(ctx)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(payload.Subject, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// GetRoleFromContext gets the role from context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	payload, ok := GetPayloadFromContext(ctx)
	if !ok {
		return "", false
	}
	return payload.Role, true
}
