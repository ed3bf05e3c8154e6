package httpx

import (
	"context"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyIdentity ctxKey = "identity"
)

// ContextWithIdentity attaches the authenticated caller to the request
// context. The authentication gate calls this exactly once, on the allow
// path only.
func ContextWithIdentity(ctx context.Context, id jwtx.Identity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, id.UserID)
	ctx = context.WithValue(ctx, CtxKeyIdentity, id)
	return ctx
}

// IdentityFromContext returns the caller identity attached by the
// authentication gate, if any.
func IdentityFromContext(ctx context.Context) (jwtx.Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(jwtx.Identity)
	return id, ok
}

func userIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
