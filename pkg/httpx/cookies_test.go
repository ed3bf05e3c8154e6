package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignCookieValue(t *testing.T) {
	secret := []byte("cookie-secret")

	t.Run("RoundTrip", func(t *testing.T) {
		signed := SignCookieValue("hello", secret)
		require.True(t, strings.HasPrefix(signed, "s:hello."))

		value, ok := UnsignCookieValue(signed, secret)
		require.True(t, ok)
		require.Equal(t, "hello", value)
	})

	t.Run("ValueWithDots", func(t *testing.T) {
		token := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiJ4In0.c2ln"
		signed := SignCookieValue(token, secret)

		value, ok := UnsignCookieValue(signed, secret)
		require.True(t, ok)
		require.Equal(t, token, value)
	})

	t.Run("NoPaddingInSignature", func(t *testing.T) {
		signed := SignCookieValue("abc", secret)
		require.False(t, strings.HasSuffix(signed, "="))
	})

	t.Run("WrongSecret", func(t *testing.T) {
		signed := SignCookieValue("hello", secret)
		_, ok := UnsignCookieValue(signed, []byte("other-secret"))
		require.False(t, ok)
	})

	t.Run("TamperedValue", func(t *testing.T) {
		signed := SignCookieValue("hello", secret)
		tampered := strings.Replace(signed, "hello", "jello", 1)
		_, ok := UnsignCookieValue(tampered, secret)
		require.False(t, ok)
	})

	t.Run("UnsignedInput", func(t *testing.T) {
		_, ok := UnsignCookieValue("hello", secret)
		require.False(t, ok)
	})

	t.Run("MissingSignature", func(t *testing.T) {
		_, ok := UnsignCookieValue("s:hello", secret)
		require.False(t, ok)
	})
}

func TestSessionTokenFromRequest(t *testing.T) {
	secret := []byte("cookie-secret")

	newRequest := func(cookieValue string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookieValue != "" {
			r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookieValue})
		}
		return r
	}

	t.Run("SignedCookie", func(t *testing.T) {
		r := newRequest(SignCookieValue("tok123", secret))
		token, ok := SessionTokenFromRequest(r, secret)
		require.True(t, ok)
		require.Equal(t, "tok123", token)
	})

	t.Run("PlainCookie", func(t *testing.T) {
		r := newRequest("tok123")
		token, ok := SessionTokenFromRequest(r, secret)
		require.True(t, ok)
		require.Equal(t, "tok123", token)
	})

	t.Run("BadSignatureRejected", func(t *testing.T) {
		// A value claiming to be signed must verify; it does not fall
		// back to being treated as a plain token.
		r := newRequest("s:tok123.bogussignature")
		_, ok := SessionTokenFromRequest(r, secret)
		require.False(t, ok)
	})

	t.Run("NoCookie", func(t *testing.T) {
		r := newRequest("")
		_, ok := SessionTokenFromRequest(r, secret)
		require.False(t, ok)
	})
}

func TestSetSessionCookie(t *testing.T) {
	secret := []byte("cookie-secret")

	t.Run("Secure", func(t *testing.T) {
		w := httptest.NewRecorder()
		SetSessionCookie(w, "tok123", secret, true, time.Hour)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)

		c := cookies[0]
		require.Equal(t, SessionCookieName, c.Name)
		require.True(t, c.HttpOnly)
		require.True(t, c.Secure)
		require.Equal(t, http.SameSiteNoneMode, c.SameSite)
		require.Equal(t, int(time.Hour.Seconds()), c.MaxAge)

		value, ok := UnsignCookieValue(c.Value, secret)
		require.True(t, ok)
		require.Equal(t, "tok123", value)
	})

	t.Run("Dev", func(t *testing.T) {
		w := httptest.NewRecorder()
		SetSessionCookie(w, "tok123", secret, false, time.Hour)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)

		c := cookies[0]
		require.Equal(t, "tok123", c.Value)
		require.False(t, c.HttpOnly)
		require.False(t, c.Secure)
	})

	t.Run("Clear", func(t *testing.T) {
		w := httptest.NewRecorder()
		ClearSessionCookie(w)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, "", cookies[0].Value)
		require.Negative(t, cookies[0].MaxAge)
	})
}
