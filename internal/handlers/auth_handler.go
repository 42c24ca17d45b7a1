package handlers

import (
	"errors"
	"net/http"
	"time"

	"tradeup/internal/service"
	"tradeup/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService    *service.AuthService
	oauthProviders map[string]*OAuthProvider
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, oauthProviders map[string]*OAuthProvider) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		oauthProviders: oauthProviders,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// authResponse carries the session pair handed out on register and login.
// The refresh token is the server-side session ID; the access token is a
// short lived JWT.
type authResponse struct {
	User         UserView  `json:"user"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// Register creates an account and opens a session for it
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	user, err := h.authService.Register(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondWithError(w, http.StatusConflict, "Email already registered", "", nil)
		case validation.ValidateEmail(req.Email) != nil, validation.ValidatePassword(req.Password) != nil:
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		default:
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "registration failed", err)
		}
		return
	}

	session, _, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "post-register login failed", err)
		return
	}

	token, _, err := h.authService.IssueAccessToken(session.ID, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to issue access token", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, authResponse{
		User:         newUserView(user),
		AccessToken:  token,
		RefreshToken: session.ID,
		ExpiresAt:    session.ExpiresAt,
	})
}

// Login authenticates with email and password
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	session, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid email or password", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "login failed", err)
		return
	}

	token, _, err := h.authService.IssueAccessToken(session.ID, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to issue access token", err)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{
		User:         newUserView(user),
		AccessToken:  token,
		RefreshToken: session.ID,
		ExpiresAt:    session.ExpiresAt,
	})
}

type accessTokenResponse struct {
	User        UserView `json:"user"`
	AccessToken string   `json:"accessToken"`
}

// Refresh trades a live refresh token for a fresh access token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	token, user, err := h.authService.IssueAccessToken(req.RefreshToken, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) || errors.Is(err, service.ErrSessionExpired) {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "token refresh failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, accessTokenResponse{
		User:        newUserView(user),
		AccessToken: token,
	})
}

// Logout revokes the refresh session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if err := h.authService.Logout(req.RefreshToken); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "logout failed", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}

// Me returns the authenticated account
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to load user", err)
		return
	}
	if user == nil {
		respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, newUserView(user))
}

type displayNameRequest struct {
	DisplayName string `json:"displayName"`
}

// UpdateDisplayName changes the account's public name
func (h *AuthHandler) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req displayNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	if err := h.authService.UpdateDisplayName(userID, req.DisplayName); err != nil {
		if validation.ValidateName(req.DisplayName) != nil {
			respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to update display name", err)
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil || user == nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "failed to reload user", err)
		return
	}
	respondWithJSON(w, http.StatusOK, newUserView(user))
}
