package httpx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "token"

// signedPrefix marks a cookie value as HMAC-signed. The format is the
// cookie-parser one: "s:<value>.<base64 hmac-sha256>", padding stripped,
// so tokens minted here stay readable by clients that already speak it.
const signedPrefix = "s:"

// SignCookieValue wraps a cookie value with an HMAC-SHA256 signature.
func SignCookieValue(value string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	sig = strings.TrimRight(sig, "=")
	return signedPrefix + value + "." + sig
}

// UnsignCookieValue validates a signed cookie value and returns the inner
// value. It reports false for unsigned input or a bad signature.
func UnsignCookieValue(signed string, secret []byte) (string, bool) {
	if !strings.HasPrefix(signed, signedPrefix) {
		return "", false
	}
	body := strings.TrimPrefix(signed, signedPrefix)

	// The value itself may contain dots (JWTs do); the signature is
	// everything after the last one.
	idx := strings.LastIndex(body, ".")
	if idx < 0 {
		return "", false
	}
	value := body[:idx]

	expected := SignCookieValue(value, secret)
	if !hmac.Equal([]byte(expected), []byte(signed)) {
		return "", false
	}
	return value, true
}

// SessionTokenFromRequest extracts the session token from the request's
// cookie store, checking the signed form first and falling back to the
// unsigned one.
func SessionTokenFromRequest(r *http.Request, secret []byte) (string, bool) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}

	if value, ok := UnsignCookieValue(c.Value, secret); ok {
		return value, true
	}
	if strings.HasPrefix(c.Value, signedPrefix) {
		// Claimed to be signed but failed verification.
		return "", false
	}
	return c.Value, true
}

// SetSessionCookie writes the session token cookie. Outside local
// development the value is signed and the cookie is httpOnly + secure;
// in dev everything stays plain so curl poking works.
func SetSessionCookie(w http.ResponseWriter, token string, secret []byte, secure bool, maxAge time.Duration) {
	value := token
	sameSite := http.SameSiteLaxMode
	if secure {
		value = SignCookieValue(token, secret)
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: secure,
		Secure:   secure,
		SameSite: sameSite,
	})
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}
