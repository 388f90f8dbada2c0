package auth

import (
	"net/http"
	"strings"
)

// Auth cookie names used by the cookie delivery mode.
const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"
)

// TokenSource extracts an access token from an incoming request.
// Implementations cover the two delivery modes: bearer header and HTTP-only
// cookie. Both are accepted simultaneously so API clients and browser
// sessions can coexist.
type TokenSource interface {
	// AccessToken returns the access token carried by the request, or
	// ErrMissingToken if this source carries none.
	AccessToken(r *http.Request) (string, error)
}

// HeaderTokenSource reads the token from an "Authorization: Bearer" header.
type HeaderTokenSource struct{}

// AccessToken implements TokenSource.
func (HeaderTokenSource) AccessToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// CookieTokenSource reads the token from the access_token cookie.
type CookieTokenSource struct{}

// AccessToken implements TokenSource.
func (CookieTokenSource) AccessToken(r *http.Request) (string, error) {
	cookie, err := r.Cookie(AccessTokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingToken
	}
	return cookie.Value, nil
}

// MultiTokenSource tries each source in order and returns the first token
// found. A malformed header fails immediately rather than falling through,
// so a client sending a broken Authorization header gets a clear error
// instead of silently authenticating via a stale cookie.
type MultiTokenSource []TokenSource

// AccessToken implements TokenSource.
func (m MultiTokenSource) AccessToken(r *http.Request) (string, error) {
	for _, src := range m {
		token, err := src.AccessToken(r)
		if err == nil {
			return token, nil
		}
		if err != ErrMissingToken {
			return "", err
		}
	}
	return "", ErrMissingToken
}

// DefaultTokenSource returns the standard source chain: the Authorization
// header takes precedence, then the access_token cookie.
func DefaultTokenSource() TokenSource {
	return MultiTokenSource{HeaderTokenSource{}, CookieTokenSource{}}
}

// RefreshTokenFromCookie returns the refresh token cookie value, if present.
// Callers fall back to the request body when the cookie is absent.
func RefreshTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
