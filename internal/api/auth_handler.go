package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tasktrackhq/tasktrack-api/internal/api/shared"
	"github.com/tasktrackhq/tasktrack-api/internal/domain"
	"github.com/tasktrackhq/tasktrack-api/internal/platform/logger"
	"github.com/tasktrackhq/tasktrack-api/internal/redact"
	"github.com/tasktrackhq/tasktrack-api/internal/service/auth"
	"github.com/tasktrackhq/tasktrack-api/internal/store"
)

// AuthHandler handles authentication-related API requests: registration,
// login, token refresh with rotation, logout and profile retrieval.
type AuthHandler struct {
	userStore        store.UserStore
	blacklist        store.TokenBlacklist
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	tokenSource      auth.TokenSource
	cookies          *auth.CookieWriter
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	blacklist store.TokenBlacklist,
	jwtService auth.JWTService,
	passwordHasher auth.PasswordHasher,
	passwordVerifier auth.PasswordVerifier,
	cookies *auth.CookieWriter,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		userStore:        userStore,
		blacklist:        blacklist,
		jwtService:       jwtService,
		passwordHasher:   passwordHasher,
		passwordVerifier: passwordVerifier,
		tokenSource:      auth.DefaultTokenSource(),
		cookies:          cookies,
		logger:           log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
// Creates a user from username, email and a confirmed password, and returns
// the public profile. Tokens are not issued here; the client logs in next.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"Validation error", ValidationFieldErrors(err))
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	// Hash before the store ever sees the user; the plaintext never leaves
	// this handler.
	hashed, err := h.passwordHasher.Hash(req.Password)
	if err != nil {
		log.Error("failed to hash password", "error", redact.Error(err))
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create user", err)
		return
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := h.userStore.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			shared.RespondWithFieldErrors(w, r, http.StatusBadRequest, "Validation error",
				map[string]string{"email": "A user with this email already exists."})
		case errors.Is(err, store.ErrUsernameExists):
			shared.RespondWithFieldErrors(w, r, http.StatusBadRequest, "Validation error",
				map[string]string{"username": "A user with this username already exists."})
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Failed to create user", err)
		}
		return
	}

	log.Info("user registered", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// Login handles POST /api/auth/login.
// Authenticates by email and password, issues a token pair, sets the auth
// cookies and returns profile plus tokens in the body (dual delivery).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r, http.StatusBadRequest,
			"Validation error", ValidationFieldErrors(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same response as a wrong password; do not reveal which.
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to authenticate user", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	access, refresh, err := h.issueTokenPair(r, user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication tokens", err)
		return
	}

	h.cookies.SetAuthCookies(w, access, refresh)

	log.Info("user logged in", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    userToResponse(user),
		Access:  access,
		Refresh: refresh,
	})
}

// RefreshToken handles POST /api/auth/refresh.
// Reads the refresh token from the cookie, falling back to the body,
// rotates it (the consumed token is blacklisted before the new pair is
// returned) and re-sets the auth cookies.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	refreshToken, ok := auth.RefreshTokenFromCookie(r)
	if !ok {
		var req RefreshRequest
		if err := shared.DecodeJSON(r, &req); err == nil {
			refreshToken = req.Refresh
		}
	}
	if refreshToken == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Refresh token not provided")
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), refreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	revoked, err := h.blacklist.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to refresh token", err)
		return
	}
	if revoked {
		err := auth.ErrRevokedRefreshToken
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to refresh token", err)
		return
	}

	// Rotation-on-use: the consumed token can never mint again, so a stolen
	// refresh token is good for at most one replay-free use.
	if err := h.blacklist.Revoke(r.Context(), claims.ID, claims.UserID, claims.ExpiresAt); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to refresh token", err)
		return
	}

	access, refresh, err := h.issueTokenPair(r, user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication tokens", err)
		return
	}

	h.cookies.SetAuthCookies(w, access, refresh)

	log.Debug("token pair rotated", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, RefreshResponse{
		Message: "Token refreshed successfully",
		Access:  access,
		Refresh: refresh,
	})
}

// Logout handles POST /api/auth/logout.
// Revokes the refresh token (cookie or body) and clears both auth cookies.
// An already-invalid token is not an error; the cookies are cleared anyway.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	refreshToken, ok := auth.RefreshTokenFromCookie(r)
	if !ok {
		var req LogoutRequest
		if err := shared.DecodeJSON(r, &req); err == nil {
			refreshToken = req.Refresh
		}
	}

	if refreshToken != "" {
		claims, err := h.jwtService.ValidateRefreshToken(r.Context(), refreshToken)
		if err == nil {
			if err := h.blacklist.Revoke(r.Context(), claims.ID, claims.UserID, claims.ExpiresAt); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Failed to log out", err)
				return
			}
			log.Info("user logged out", "user_id", claims.UserID)
		} else {
			log.Debug("logout with invalid refresh token", "error", redact.Error(err))
		}
	}

	h.cookies.ClearAuthCookies(w)
	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Me handles GET /api/auth/me.
// Returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// Verify handles GET /api/auth/verify.
// Reports whether the presented access token is valid, returning the profile
// when it is. Unlike the auth middleware this endpoint never rejects the
// request outright; an invalid token yields a 401 with valid=false.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokenSource.AccessToken(r)
	if err == nil {
		var claims *auth.Claims
		claims, err = h.jwtService.ValidateToken(r.Context(), token)
		if err == nil {
			user, userErr := h.userStore.GetByID(r.Context(), claims.UserID)
			if userErr == nil {
				resp := userToResponse(user)
				shared.RespondWithJSON(w, r, http.StatusOK, VerifyResponse{Valid: true, User: &resp})
				return
			}
			err = userErr
		}
	}

	logger.FromContextOrDefault(r.Context(), h.logger).
		Debug("token verification failed", "error", redact.Error(err))
	shared.RespondWithJSON(w, r, http.StatusUnauthorized, VerifyResponse{
		Valid: false,
		Error: "Invalid or expired token",
	})
}

// issueTokenPair mints a fresh access+refresh pair for the user.
func (h *AuthHandler) issueTokenPair(r *http.Request, user *domain.User) (string, string, error) {
	access, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		return "", "", err
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), user.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
