package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teerapatl/aqualog-api/internal/model"
)

func TestUserValidate(t *testing.T) {
	t.Parallel()

	t.Run("password account", func(t *testing.T) {
		user := &model.User{PasswordHash: "digest"}
		assert.NoError(t, user.Validate())
	})

	t.Run("provider account", func(t *testing.T) {
		user := &model.User{Providers: []model.ProviderBinding{
			{Provider: model.AuthProviderGoogle, ProviderID: "g-1"},
		}}
		assert.NoError(t, user.Validate())
	})

	t.Run("no auth method", func(t *testing.T) {
		user := &model.User{Name: "Ann", Email: "ann@x.com"}
		assert.ErrorIs(t, user.Validate(), model.ErrNoAuthMethod)
	})
}

func TestUserJSONHidesCredentials(t *testing.T) {
	t.Parallel()

	user := &model.User{
		Name:                "Ann",
		Email:               "ann@x.com",
		PasswordHash:        "digest",
		ResetPasswordDigest: "reset-digest",
		Providers: []model.ProviderBinding{
			{Provider: model.AuthProviderGoogle, ProviderID: "g-1", AccessToken: "at", RefreshToken: "rt"},
		},
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	serialized := string(raw)
	assert.NotContains(t, serialized, "digest")
	assert.NotContains(t, serialized, "g-1")
	assert.NotContains(t, serialized, "at\"")
	assert.Contains(t, serialized, "ann@x.com")
}

func TestHasProvider(t *testing.T) {
	t.Parallel()

	user := &model.User{Providers: []model.ProviderBinding{
		{Provider: model.AuthProviderGoogle, ProviderID: "g-1"},
	}}

	assert.True(t, user.HasProvider(model.AuthProviderGoogle, "g-1"))
	assert.False(t, user.HasProvider(model.AuthProviderGoogle, "g-2"))
	assert.False(t, user.HasProvider("github", "g-1"))
}
