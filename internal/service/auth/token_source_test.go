package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderTokenSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{
			name:      "valid bearer token",
			header:    "Bearer some-token",
			wantToken: "some-token",
		},
		{
			name:    "missing header",
			header:  "",
			wantErr: ErrMissingToken,
		},
		{
			name:    "wrong scheme",
			header:  "Basic dXNlcjpwYXNz",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "bearer with no token",
			header:  "Bearer ",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "bare token without scheme",
			header:  "some-token",
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			token, err := HeaderTokenSource{}.AccessToken(r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestCookieTokenSource(t *testing.T) {
	t.Parallel()

	t.Run("reads access token cookie", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "cookie-token"})

		token, err := CookieTokenSource{}.AccessToken(r)
		require.NoError(t, err)
		assert.Equal(t, "cookie-token", token)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := CookieTokenSource{}.AccessToken(r)
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("empty cookie value", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: ""})

		_, err := CookieTokenSource{}.AccessToken(r)
		assert.ErrorIs(t, err, ErrMissingToken)
	})
}

func TestDefaultTokenSource(t *testing.T) {
	t.Parallel()

	t.Run("header takes precedence over cookie", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer header-token")
		r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "cookie-token"})

		token, err := DefaultTokenSource().AccessToken(r)
		require.NoError(t, err)
		assert.Equal(t, "header-token", token)
	})

	t.Run("falls back to cookie when header absent", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "cookie-token"})

		token, err := DefaultTokenSource().AccessToken(r)
		require.NoError(t, err)
		assert.Equal(t, "cookie-token", token)
	})

	t.Run("malformed header does not fall through to cookie", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "NotBearer something")
		r.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: "cookie-token"})

		_, err := DefaultTokenSource().AccessToken(r)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("neither source present", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		_, err := DefaultTokenSource().AccessToken(r)
		assert.ErrorIs(t, err, ErrMissingToken)
	})
}

func TestRefreshTokenFromCookie(t *testing.T) {
	t.Parallel()

	t.Run("present", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.AddCookie(&http.Cookie{Name: RefreshTokenCookieName, Value: "refresh-cookie"})

		token, ok := RefreshTokenFromCookie(r)
		assert.True(t, ok)
		assert.Equal(t, "refresh-cookie", token)
	})

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", nil)

		_, ok := RefreshTokenFromCookie(r)
		assert.False(t, ok)
	})
}
