package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatl/aqualog-api/internal/handler"
	"github.com/teerapatl/aqualog-api/internal/middleware"
	"github.com/teerapatl/aqualog-api/internal/model"
	"github.com/teerapatl/aqualog-api/internal/repository"
	"github.com/teerapatl/aqualog-api/internal/usecase"
	"github.com/teerapatl/aqualog-api/pkg/auth"
	"github.com/teerapatl/aqualog-api/pkg/validator"
)

// stubWaterUsecase returns canned results per operation.
type stubWaterUsecase struct {
	createResult *model.WaterEntry
	createErr    error
	listResult   []*model.WaterEntry
	updateResult *model.WaterEntry
	updateErr    error
	deleteErr    error
	statsResult  *repository.WaterStats
}

func (s *stubWaterUsecase) CreateEntry(context.Context, bson.ObjectID, usecase.CreateEntryParams) (*model.WaterEntry, error) {
	return s.createResult, s.createErr
}

func (s *stubWaterUsecase) ListEntries(context.Context, bson.ObjectID, repository.ListEntriesParams) ([]*model.WaterEntry, error) {
	return s.listResult, nil
}

func (s *stubWaterUsecase) UpdateEntry(context.Context, bson.ObjectID, string, repository.UpdateEntryParams) (*model.WaterEntry, error) {
	return s.updateResult, s.updateErr
}

func (s *stubWaterUsecase) DeleteEntry(context.Context, bson.ObjectID, string) error {
	return s.deleteErr
}

func (s *stubWaterUsecase) Stats(context.Context, bson.ObjectID, time.Time, time.Time) (*repository.WaterStats, error) {
	return s.statsResult, nil
}

// gateUserRepository serves the single authenticated user to the auth gate.
type gateUserRepository struct {
	user *model.User
}

func (g *gateUserRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	if g.user != nil && g.user.ID.Hex() == id {
		return g.user, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (g *gateUserRepository) CreateUser(context.Context, *model.User) (*model.User, error) {
	panic("not implemented")
}

func (g *gateUserRepository) GetUserByEmail(context.Context, string) (*model.User, error) {
	panic("not implemented")
}

func (g *gateUserRepository) UpdateProfile(context.Context, string, repository.UpdateProfileParams) (*model.User, error) {
	panic("not implemented")
}

func (g *gateUserRepository) AddProviderBinding(context.Context, string, model.ProviderBinding, string) (*model.User, error) {
	panic("not implemented")
}

func (g *gateUserRepository) SetResetDigest(context.Context, string, string, time.Time) error {
	panic("not implemented")
}

func (g *gateUserRepository) GetUserByResetDigest(context.Context, string) (*model.User, error) {
	panic("not implemented")
}

func (g *gateUserRepository) ConsumeResetDigest(context.Context, string, string) (*model.User, error) {
	panic("not implemented")
}

func newWaterServer(t *testing.T, waterStub usecase.WaterUsecase) (*httptest.Server, string) {
	t.Helper()

	valid, err := validator.New()
	require.NoError(t, err)
	logger := zerolog.Nop()

	user := testUser()
	jwtAuth := auth.NewJWTAuthenticator("secret", "aqualog-test", time.Hour)

	token, err := jwtAuth.GenerateToken(user.ID.Hex())
	require.NoError(t, err)

	h := handler.NewWaterHandler(waterStub, valid, &logger)

	r := chi.NewRouter()
	r.Route("/api/water", func(water chi.Router) {
		water.Use(middleware.RequireAuth(jwtAuth, &gateUserRepository{user: user}))
		h.Routes(water)
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, token
}

func doAuthed(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateWaterEntryHandler(t *testing.T) {
	t.Parallel()

	entry := &model.WaterEntry{
		ID:      bson.NewObjectID(),
		UserID:  bson.NewObjectID(),
		Date:    time.Now(),
		Glasses: 0,
	}
	server, token := newWaterServer(t, &stubWaterUsecase{createResult: entry})

	t.Run("rejects glasses above the maximum", func(t *testing.T) {
		resp := doAuthed(t, http.MethodPost, server.URL+"/api/water", token, `{"glasses":51}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects negative glasses", func(t *testing.T) {
		resp := doAuthed(t, http.MethodPost, server.URL+"/api/water", token, `{"glasses":-1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects a missing glasses field", func(t *testing.T) {
		resp := doAuthed(t, http.MethodPost, server.URL+"/api/water", token, `{"notes":"morning"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("accepts zero glasses", func(t *testing.T) {
		resp := doAuthed(t, http.MethodPost, server.URL+"/api/water", token, `{"glasses":0}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("rejects an unauthenticated request", func(t *testing.T) {
		resp := doAuthed(t, http.MethodPost, server.URL+"/api/water", "", `{"glasses":5}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUpdateWaterEntryHandler(t *testing.T) {
	t.Parallel()

	t.Run("foreign entry returns 403", func(t *testing.T) {
		server, token := newWaterServer(t, &stubWaterUsecase{updateErr: usecase.ErrNotEntryOwner})

		resp := doAuthed(t, http.MethodPut,
			server.URL+"/api/water/"+bson.NewObjectID().Hex(), token, `{"glasses":5}`)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing entry returns 404", func(t *testing.T) {
		server, token := newWaterServer(t, &stubWaterUsecase{updateErr: usecase.ErrEntryNotFound})

		resp := doAuthed(t, http.MethodPut,
			server.URL+"/api/water/"+bson.NewObjectID().Hex(), token, `{"glasses":5}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("empty update returns 400", func(t *testing.T) {
		server, token := newWaterServer(t, &stubWaterUsecase{})

		resp := doAuthed(t, http.MethodPut,
			server.URL+"/api/water/"+bson.NewObjectID().Hex(), token, `{}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDeleteWaterEntryHandler(t *testing.T) {
	t.Parallel()

	t.Run("foreign entry returns 403", func(t *testing.T) {
		server, token := newWaterServer(t, &stubWaterUsecase{deleteErr: usecase.ErrNotEntryOwner})

		resp := doAuthed(t, http.MethodDelete,
			server.URL+"/api/water/"+bson.NewObjectID().Hex(), token, "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("missing entry returns 404", func(t *testing.T) {
		server, token := newWaterServer(t, &stubWaterUsecase{deleteErr: usecase.ErrEntryNotFound})

		resp := doAuthed(t, http.MethodDelete,
			server.URL+"/api/water/"+bson.NewObjectID().Hex(), token, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestWaterStatsHandler(t *testing.T) {
	t.Parallel()

	server, token := newWaterServer(t, &stubWaterUsecase{
		statsResult: &repository.WaterStats{TotalGlasses: 18, Entries: 3, AverageGlasses: 6},
	})

	t.Run("returns aggregated stats", func(t *testing.T) {
		resp := doAuthed(t, http.MethodGet,
			server.URL+"/api/water/stats?startDate=2026-08-20&endDate=2026-08-22", token, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data := decodeBody(t, resp)["data"].(map[string]any)
		assert.EqualValues(t, 18, data["totalGlasses"])
		assert.EqualValues(t, 3, data["entries"])
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		resp := doAuthed(t, http.MethodGet,
			server.URL+"/api/water/stats?startDate=08-20-2026", token, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
