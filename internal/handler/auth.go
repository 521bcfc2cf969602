package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/teerapatl/aqualog-api/internal/model"
	"github.com/teerapatl/aqualog-api/internal/payload"
	"github.com/teerapatl/aqualog-api/internal/usecase"
	"github.com/teerapatl/aqualog-api/pkg/provider"
	"github.com/teerapatl/aqualog-api/pkg/validator"
)

// AuthHandler serves the /api/auth routes.
type AuthHandler struct {
	authUsecase          usecase.AuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	google               *provider.GoogleProvider
	validator            *validator.Validator
	logger               *zerolog.Logger
	clientURL            string
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	google *provider.GoogleProvider,
	validator *validator.Validator,
	logger *zerolog.Logger,
	clientURL string,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:          authUsecase,
		passwordResetUsecase: passwordResetUsecase,
		google:               google,
		validator:            validator,
		logger:               logger,
		clientURL:            clientURL,
	}
}

// Routes mounts the auth endpoints on a chi router.
func (h *AuthHandler) Routes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/google-simple", h.GoogleSimple)
	r.Get("/google", h.GoogleRedirect)
	r.Get("/google/callback", h.GoogleCallback)
	r.Get("/check-email/{email}", h.CheckEmail)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password", h.ResetPassword)
	r.Get("/verify-reset-token/{token}", h.VerifyResetToken)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	result, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			respondError(w, http.StatusBadRequest, "email is already registered")
			return
		}

		h.logger.Error().Err(err).Msg("failed to register user")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondJSON(w, http.StatusCreated, payload.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	result, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		h.logger.Error().Err(err).Msg("failed to log in user")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondJSON(w, http.StatusOK, payload.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// GoogleSimple accepts a Google profile the client already obtained and
// resolves it to a local account.
func (h *AuthHandler) GoogleSimple(w http.ResponseWriter, r *http.Request) {
	var req payload.GoogleSimpleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	result, err := h.authUsecase.ResolveExternal(r.Context(), usecase.ExternalParams{
		Provider:   model.AuthProviderGoogle,
		ProviderID: req.ID,
		Email:      req.Email,
		Name:       req.Name,
		Avatar:     req.Photo,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to resolve google account")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondJSON(w, http.StatusOK, payload.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// GoogleRedirect sends the browser to the Google consent screen.
func (h *AuthHandler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.google.AuthURL(), http.StatusTemporaryRedirect)
}

// GoogleCallback finishes the redirect flow and forwards the browser back to
// the client app carrying a token, or to the failure page.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	failureURL := fmt.Sprintf("%s/login?error=oauth", h.clientURL)

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if code == "" || h.google.ConsumeState(state) != nil {
		http.Redirect(w, r, failureURL, http.StatusTemporaryRedirect)
		return
	}

	profile, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to exchange google authorization code")
		http.Redirect(w, r, failureURL, http.StatusTemporaryRedirect)
		return
	}

	result, err := h.authUsecase.ResolveExternal(r.Context(), usecase.ExternalParams{
		Provider:     h.google.Name(),
		ProviderID:   profile.ProviderID,
		Email:        profile.Email,
		Name:         profile.Name,
		Avatar:       profile.Avatar,
		AccessToken:  profile.AccessToken,
		RefreshToken: profile.RefreshToken,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to resolve google account")
		http.Redirect(w, r, failureURL, http.StatusTemporaryRedirect)
		return
	}

	successURL := fmt.Sprintf("%s/oauth/callback?token=%s", h.clientURL, result.Token)
	http.Redirect(w, r, successURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	user, err := h.authUsecase.CheckEmail(r.Context(), email)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to check email")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondJSON(w, http.StatusOK, payload.CheckEmailResponse{
		Exists: user != nil,
		User:   user,
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	if err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		// Still answer with the generic message so a delivery failure cannot
		// be used to probe for registered emails.
		h.logger.Error().Err(err).Msg("failed to request password reset")
	}

	respondMessage(w, http.StatusOK, "if that email is registered, a reset link has been sent")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	if err := h.passwordResetUsecase.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, usecase.ErrInvalidOrExpiredToken) {
			respondError(w, http.StatusBadRequest, "invalid or expired password reset token")
			return
		}

		h.logger.Error().Err(err).Msg("failed to reset password")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondMessage(w, http.StatusOK, "password has been reset")
}

// VerifyResetToken redirects the browser to the client's reset form when the
// token is still valid, and to the invalid-token page otherwise.
func (h *AuthHandler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.passwordResetUsecase.ValidateResetToken(r.Context(), token); err != nil {
		if !errors.Is(err, usecase.ErrInvalidOrExpiredToken) {
			h.logger.Error().Err(err).Msg("failed to validate password reset token")
		}

		http.Redirect(w, r, fmt.Sprintf("%s/reset-password/invalid", h.clientURL), http.StatusTemporaryRedirect)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("%s/reset-password?token=%s", h.clientURL, token), http.StatusTemporaryRedirect)
}
