package auth

import (
	"net/http"
	"time"
)

// CookieWriter sets and clears the HTTP-only auth cookies used by the cookie
// delivery mode. Cookies are SameSite=Lax and, when secure is enabled,
// transmitted over HTTPS only. HTTP-only keeps them out of reach of page
// scripts.
type CookieWriter struct {
	secure          bool
	accessLifetime  time.Duration
	refreshLifetime time.Duration
}

// NewCookieWriter creates a CookieWriter. Cookie lifetimes should match the
// corresponding token lifetimes so a cookie never outlives its token.
func NewCookieWriter(secure bool, accessLifetime, refreshLifetime time.Duration) *CookieWriter {
	return &CookieWriter{
		secure:          secure,
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
	}
}

// SetAuthCookies writes both token cookies on the response.
func (c *CookieWriter) SetAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, c.cookie(AccessTokenCookieName, accessToken, c.accessLifetime))
	http.SetCookie(w, c.cookie(RefreshTokenCookieName, refreshToken, c.refreshLifetime))
}

// ClearAuthCookies expires both token cookies on the response.
func (c *CookieWriter) ClearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, c.expired(AccessTokenCookieName))
	http.SetCookie(w, c.expired(RefreshTokenCookieName))
}

func (c *CookieWriter) cookie(name, value string, lifetime time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *CookieWriter) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
