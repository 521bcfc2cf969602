package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/teerapatl/aqualog-api/internal/middleware"
	"github.com/teerapatl/aqualog-api/internal/payload"
	"github.com/teerapatl/aqualog-api/internal/repository"
	"github.com/teerapatl/aqualog-api/internal/usecase"
	"github.com/teerapatl/aqualog-api/pkg/validator"
)

const dateLayout = "2006-01-02"

// Default stats window when the caller does not supply a range.
const defaultStatsWindow = 7 * 24 * time.Hour

// WaterHandler serves the /api/water routes.
type WaterHandler struct {
	waterUsecase usecase.WaterUsecase
	validator    *validator.Validator
	logger       *zerolog.Logger
}

// NewWaterHandler creates a new WaterHandler instance.
func NewWaterHandler(
	waterUsecase usecase.WaterUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *WaterHandler {
	return &WaterHandler{
		waterUsecase: waterUsecase,
		validator:    validator,
		logger:       logger,
	}
}

// Routes mounts the water log endpoints on a chi router.
func (h *WaterHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/stats", h.Stats)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *WaterHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var req payload.CreateWaterEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}

	var date time.Time
	if req.Date != "" {
		// Already validated against the layout.
		date, _ = time.Parse(dateLayout, req.Date)
	}

	entry, err := h.waterUsecase.CreateEntry(r.Context(), user.ID, usecase.CreateEntryParams{
		Glasses: *req.Glasses,
		Date:    date,
		Notes:   req.Notes,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to create water entry")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondJSON(w, http.StatusCreated, entry)
}

func (h *WaterHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var params repository.ListEntriesParams

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "startDate must be formatted as YYYY-MM-DD")
			return
		}
		params.From = &from
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "endDate must be formatted as YYYY-MM-DD")
			return
		}
		// Make the bound inclusive of the whole day.
		to = to.Add(24*time.Hour - time.Nanosecond)
		params.To = &to
	}

	entries, err := h.waterUsecase.ListEntries(r.Context(), user.ID, params)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list water entries")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func (h *WaterHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	to := time.Now()
	from := to.Add(-defaultStatsWindow)

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "startDate must be formatted as YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "endDate must be formatted as YYYY-MM-DD")
			return
		}
		to = parsed.Add(24*time.Hour - time.Nanosecond)
	}

	stats, err := h.waterUsecase.Stats(r.Context(), user.ID, from, to)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to aggregate water stats")
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *WaterHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	var req payload.UpdateWaterEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if messages := h.validator.Struct(req); messages != nil {
		respondValidationErrors(w, messages)
		return
	}
	if req.Glasses == nil && req.Date == nil && req.Notes == nil {
		respondError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	params := repository.UpdateEntryParams{
		Glasses: req.Glasses,
		Notes:   req.Notes,
	}
	if req.Date != nil {
		date, _ := time.Parse(dateLayout, *req.Date)
		params.Date = &date
	}

	entry, err := h.waterUsecase.UpdateEntry(r.Context(), user.ID, chi.URLParam(r, "id"), params)
	if err != nil {
		h.respondEntryError(w, err, "failed to update water entry")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

func (h *WaterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	if err := h.waterUsecase.DeleteEntry(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.respondEntryError(w, err, "failed to delete water entry")
		return
	}

	respondMessage(w, http.StatusOK, "water entry deleted")
}

func (h *WaterHandler) respondEntryError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, usecase.ErrEntryNotFound):
		respondError(w, http.StatusNotFound, "water entry not found")
	case errors.Is(err, usecase.ErrNotEntryOwner):
		respondError(w, http.StatusForbidden, "water entry belongs to another user")
	default:
		h.logger.Error().Err(err).Msg(logMsg)
		respondError(w, http.StatusInternalServerError, genericInternalMessage)
	}
}
