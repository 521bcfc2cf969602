package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/teerapatl/aqualog-api/internal/middleware"
	"github.com/teerapatl/aqualog-api/internal/repository"
	"github.com/teerapatl/aqualog-api/pkg/auth"
)

// RouterParams bundles the dependencies the HTTP surface needs.
type RouterParams struct {
	AuthHandler  *AuthHandler
	UserHandler  *UserHandler
	WaterHandler *WaterHandler
	JWTAuth      auth.JWTAuthenticator
	UserRepo     repository.UserRepository
}

// NewRouter assembles the full route table.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, nil)
	})

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", params.AuthHandler.Routes)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth(params.JWTAuth, params.UserRepo))

			protected.Route("/user", params.UserHandler.Routes)
			protected.Route("/water", params.WaterHandler.Routes)
		})
	})

	return r
}
