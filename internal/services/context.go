package services

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller, resolved by the auth provider.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Avatar string
}

type ctxKey int

const identityKey ctxKey = iota

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return id.UserID, true
}
