package httpserver

import (
	"context"

	"github.com/eklimov/taskdeck/internal/model"
)

type ctxKey string

const (
	userKey     ctxKey = "td.user"
	resourceKey ctxKey = "td.resource"
)

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromCtx fetches the authenticated user from the context.
func UserFromCtx(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// WithResource caches the ownership-checked resource so handlers do not
// reload it.
func WithResource(ctx context.Context, res model.Owned) context.Context {
	return context.WithValue(ctx, resourceKey, res)
}

// ResourceFromCtx fetches the cached resource from the context.
func ResourceFromCtx(ctx context.Context) (model.Owned, bool) {
	res, ok := ctx.Value(resourceKey).(model.Owned)
	return res, ok && res != nil
}
