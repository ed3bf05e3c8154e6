package httpx

import (
	"net/http"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/jwtx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

// GuardConfig is the statically-declared authorization requirement of a
// route. The router builds one per route; there is no runtime metadata
// lookup.
type GuardConfig struct {
	// Public routes bypass authentication entirely; no identity is
	// attached.
	Public bool

	// Permissions is the set of capability names of which the caller's
	// role must hold at least one. Empty means no permission restriction.
	Permissions []string
}

// Authenticate is the first guard. It resolves to a boolean: true means the
// request may proceed, and for non-public routes the returned request has
// the caller identity attached to its context. Denial carries no reason.
func Authenticate(r *http.Request, cfg GuardConfig, tokens *jwtx.TokenService, cookieSecret []byte) (*http.Request, bool) {
	if cfg.Public {
		return r, true
	}

	raw, ok := SessionTokenFromRequest(r, cookieSecret)
	if !ok {
		return r, false
	}

	claims, err := tokens.Verify(raw)
	if err != nil {
		return r, false
	}

	ctx := ContextWithIdentity(r.Context(), claims.Identity())
	return r.WithContext(ctx), true
}

// AuthnMiddleware wires Authenticate into the middleware chain, translating
// denial into the uniform unauthorized response.
func AuthnMiddleware(cfg GuardConfig, tokens *jwtx.TokenService, cookieSecret []byte) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, allowed := Authenticate(r, cfg, tokens, cookieSecret)
			if !allowed {
				slogx.FromContext(r.Context()).Warn("authentication denied")
				writeUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
