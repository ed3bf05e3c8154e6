package httpx

import (
	"context"
	"net/http"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

// PermissionResolver looks up the capability names that are granted to the
// given user's role. The permission gate treats any error as a denial.
type PermissionResolver func(ctx context.Context, userID string) ([]string, error)

// Authorize is the second guard. It assumes the authentication gate has
// already run and attached the caller identity. Semantics are ANY-of: the
// caller passes when at least one granted capability appears in the route's
// required set. A role with no granted capabilities never passes.
func Authorize(ctx context.Context, cfg GuardConfig, resolve PermissionResolver) bool {
	if len(cfg.Permissions) == 0 {
		return true
	}

	userID := userIDFromCtx(ctx)
	if userID == "" {
		return false
	}

	granted, err := resolve(ctx, userID)
	if err != nil {
		return false
	}

	want := make(map[string]struct{}, len(cfg.Permissions))
	for _, p := range cfg.Permissions {
		want[p] = struct{}{}
	}
	for _, g := range granted {
		if _, ok := want[g]; ok {
			return true
		}
	}
	return false
}

// AuthzMiddleware wires Authorize into the middleware chain, translating
// denial into the uniform forbidden response.
func AuthzMiddleware(cfg GuardConfig, resolve PermissionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Authorize(r.Context(), cfg, resolve) {
				slogx.FromContext(r.Context()).Warn("authorization denied",
					"required", cfg.Permissions,
				)
				writeForbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
