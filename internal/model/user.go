package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Auth providers a user can sign in with.
const (
	AuthProviderPassword = "password"
	AuthProviderGoogle   = "google"
)

// ErrNoAuthMethod is returned when a user would end up with neither a
// password digest nor an external provider binding.
var ErrNoAuthMethod = errors.New("user must have a password or a provider binding")

// ProviderBinding links a user to an account at an external OAuth provider.
type ProviderBinding struct {
	Provider     string `bson:"provider"                json:"provider"`
	ProviderID   string `bson:"provider_id"             json:"-"`
	AccessToken  string `bson:"access_token,omitempty"  json:"-"`
	RefreshToken string `bson:"refresh_token,omitempty" json:"-"`
}

// User represents an account. Credential material (password digest, reset
// digest, provider tokens) is excluded from JSON serialization and must
// never appear in a response body.
type User struct {
	ID                     bson.ObjectID     `bson:"_id,omitempty"                        json:"id"`
	Name                   string            `bson:"name"                                 json:"name"`
	Email                  string            `bson:"email"                                json:"email"`
	PasswordHash           string            `bson:"password_hash,omitempty"              json:"-"`
	Avatar                 string            `bson:"avatar,omitempty"                     json:"avatar,omitempty"`
	AuthProvider           string            `bson:"auth_provider"                        json:"authProvider"`
	Providers              []ProviderBinding `bson:"providers,omitempty"                  json:"-"`
	ResetPasswordDigest    string            `bson:"reset_password_digest,omitempty"      json:"-"`
	ResetPasswordExpiresAt *time.Time        `bson:"reset_password_expires_at,omitempty"  json:"-"`
	CreatedAt              time.Time         `bson:"created_at"                           json:"createdAt"`
	UpdatedAt              time.Time         `bson:"updated_at"                           json:"updatedAt"`
}

// Validate enforces the construction-time invariant that every account is
// reachable by at least one auth method.
func (u *User) Validate() error {
	if u.PasswordHash == "" && len(u.Providers) == 0 {
		return ErrNoAuthMethod
	}

	return nil
}

// HasProvider reports whether the user already carries a binding for the
// given provider account.
func (u *User) HasProvider(provider, providerID string) bool {
	for _, b := range u.Providers {
		if b.Provider == provider && b.ProviderID == providerID {
			return true
		}
	}

	return false
}
