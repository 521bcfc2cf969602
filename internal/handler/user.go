package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/teerapatl/aqualog-api/internal/middleware"
	"github.com/teerapatl/aqualog-api/internal/payload"
	"github.com/teerapatl/aqualog-api/internal/usecase"
	"github.com/teerapatl/aqualog-api/pkg/validator"
)

// UserHandler serves the /api/user routes.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.Validator
	logger      *zerolog.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(
	userUsecase usecase.UserUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
		logger:      logger,
	}
}

// Routes mounts the profile endpoints on a chi router.
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var req payload.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}
	if req.Name == nil && req.Avatar == nil {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	updated, err := h.userUsecase.UpdateProfile(r.Context(), user.ID.Hex(), usecase.UpdateProfileParams{
		Name:   req.Name,
		Avatar: req.Avatar,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to update profile")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
