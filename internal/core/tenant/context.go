// Package tenant carries the owning operator of a request.
//
// Every store query is filtered by the owner found here; handlers never
// accept an owner id from the client.
package tenant

import (
	"context"

	"docengine/internal/core/apperror"
	"docengine/internal/core/id"
)

type ownerKey struct{}

// WithOwner binds the authenticated operator to ctx.
func WithOwner(ctx context.Context, ownerID id.ID) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFrom returns the operator bound to ctx.
func OwnerFrom(ctx context.Context) (id.ID, bool) {
	v, ok := ctx.Value(ownerKey{}).(id.ID)
	if !ok || id.IsNil(v) {
		return id.Nil(), false
	}
	return v, true
}

// RequireOwner returns the operator or AuthRequired.
func RequireOwner(ctx context.Context) (id.ID, error) {
	v, ok := OwnerFrom(ctx)
	if !ok {
		return id.Nil(), apperror.NewAuthRequired("authentication required")
	}
	return v, nil
}
