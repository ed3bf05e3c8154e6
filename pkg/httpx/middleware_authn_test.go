package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/jwtx"
)

func newTokenService() *jwtx.TokenService {
	return &jwtx.TokenService{
		Secret: []byte("test-jwt-secret"),
		Issuer: "authapi-test",
	}
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokenService()
	cookieSecret := []byte("test-cookie-secret")

	identity := jwtx.Identity{
		UserID:    "user-1",
		Username:  "alice",
		AccountID: "acct-1",
		Role:      "Admin",
	}

	withCookie := func(value string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})
		return r
	}

	t.Run("PublicAlwaysAllowed", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		got, allowed := Authenticate(r, GuardConfig{Public: true}, tokens, cookieSecret)
		require.True(t, allowed)

		// Public requests carry no identity.
		_, ok := IdentityFromContext(got.Context())
		require.False(t, ok)
	})

	t.Run("ValidTokenAttachesIdentity", func(t *testing.T) {
		token, err := tokens.Issue(identity, time.Hour)
		require.NoError(t, err)

		r := withCookie(SignCookieValue(token, cookieSecret))
		got, allowed := Authenticate(r, GuardConfig{}, tokens, cookieSecret)
		require.True(t, allowed)

		id, ok := IdentityFromContext(got.Context())
		require.True(t, ok)
		require.Equal(t, identity, id)
	})

	t.Run("MissingCookieDenied", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, allowed := Authenticate(r, GuardConfig{}, tokens, cookieSecret)
		require.False(t, allowed)
	})

	t.Run("ExpiredTokenDenied", func(t *testing.T) {
		token, err := tokens.Issue(identity, time.Nanosecond)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		r := withCookie(SignCookieValue(token, cookieSecret))
		_, allowed := Authenticate(r, GuardConfig{}, tokens, cookieSecret)
		require.False(t, allowed)
	})

	t.Run("TamperedCookieDenied", func(t *testing.T) {
		token, err := tokens.Issue(identity, time.Hour)
		require.NoError(t, err)

		r := withCookie("s:" + token + ".badsignature")
		_, allowed := Authenticate(r, GuardConfig{}, tokens, cookieSecret)
		require.False(t, allowed)
	})

	t.Run("GarbageTokenDenied", func(t *testing.T) {
		r := withCookie("not-a-jwt")
		_, allowed := Authenticate(r, GuardConfig{}, tokens, cookieSecret)
		require.False(t, allowed)
	})
}

func TestAuthnMiddleware(t *testing.T) {
	tokens := newTokenService()
	cookieSecret := []byte("test-cookie-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("UniformDenialBody", func(t *testing.T) {
		// Missing, garbage and expired tokens must all produce the exact
		// same 401 response.
		expired, err := tokens.Issue(jwtx.Identity{UserID: "user-1"}, time.Nanosecond)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)

		cases := map[string]string{
			"missing": "",
			"garbage": "not-a-jwt",
			"expired": SignCookieValue(expired, cookieSecret),
		}

		handler := Chain(next, AuthnMiddleware(GuardConfig{}, tokens, cookieSecret))

		for name, cookieValue := range cases {
			t.Run(name, func(t *testing.T) {
				r := httptest.NewRequest(http.MethodGet, "/", nil)
				if cookieValue != "" {
					r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookieValue})
				}

				w := httptest.NewRecorder()
				handler.ServeHTTP(w, r)

				require.Equal(t, http.StatusUnauthorized, w.Code)

				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				require.Equal(t, "unauthorized", body["error"])
				require.Equal(t, "Authentication required", body["error_description"])
			})
		}
	})

	t.Run("AllowedRequestReachesHandler", func(t *testing.T) {
		token, err := tokens.Issue(jwtx.Identity{UserID: "user-1"}, time.Hour)
		require.NoError(t, err)

		handler := Chain(next, AuthnMiddleware(GuardConfig{}, tokens, cookieSecret))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: SignCookieValue(token, cookieSecret)})

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
	})
}
