package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/reelbites/reelbites-backend/pkg/enums"
)

type contextKey string

const (
	ctxPrincipalID contextKey = "principal_id"
	ctxRole        contextKey = "actor_role"
	ctxAccessID    contextKey = "access_id"
)

// PrincipalIDFromContext returns the authenticated account id, or uuid.Nil.
func PrincipalIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxPrincipalID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// RoleFromContext returns the authenticated actor role, or the empty value.
func RoleFromContext(ctx context.Context) enums.ActorRole {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.ActorRole); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the jti behind the request's access token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithPrincipal injects the authenticated identity into the context.
func WithPrincipal(ctx context.Context, principalID uuid.UUID, role enums.ActorRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxPrincipalID, principalID)
	return context.WithValue(ctx, ctxRole, role)
}

func withAccessID(ctx context.Context, accessID string) context.Context {
	return context.WithValue(ctx, ctxAccessID, accessID)
}
