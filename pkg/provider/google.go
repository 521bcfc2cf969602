package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var (
	ErrInvalidState = errors.New("invalid or expired oauth state")
	ErrNoEmail      = errors.New("provider profile has no email")
)

// Profile is the normalized identity returned by an external provider.
type Profile struct {
	ProviderID   string
	Email        string
	Name         string
	Avatar       string
	AccessToken  string
	RefreshToken string
}

const stateTTL = 10 * time.Minute

// GoogleProvider drives the Google OAuth redirect flow: consent URL
// generation, code exchange and profile retrieval.
type GoogleProvider struct {
	oauthCfg *oauth2.Config

	mu     sync.Mutex
	states map[string]time.Time
}

// NewGoogleProvider creates a GoogleProvider configured from the environment.
func NewGoogleProvider(logger *zerolog.Logger) *GoogleProvider {
	cfg := newGoogleConfig(logger)

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Google OAuth configuration")
	}

	return &GoogleProvider{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		states: make(map[string]time.Time),
	}
}

// Name returns the provider identifier used in provider bindings.
func (p *GoogleProvider) Name() string {
	return "google"
}

// AuthURL returns the Google consent screen URL carrying a fresh single-use
// state parameter.
func (p *GoogleProvider) AuthURL() string {
	state := uuid.NewString()

	p.mu.Lock()
	p.states[state] = time.Now().Add(stateTTL)
	p.mu.Unlock()

	return p.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ConsumeState validates and invalidates a state parameter returned on the
// callback. A state is valid exactly once and only within its TTL.
func (p *GoogleProvider) ConsumeState(state string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	expiresAt, ok := p.states[state]
	if !ok {
		return ErrInvalidState
	}
	delete(p.states, state)

	if time.Now().After(expiresAt) {
		return ErrInvalidState
	}

	return nil
}

// Exchange trades the authorization code for tokens and fetches the Google
// user profile with them.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	service, err := googleoauth2.NewService(ctx, option.WithTokenSource(p.oauthCfg.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Do()
	if err != nil {
		return nil, err
	}

	if userInfo.Email == "" {
		return nil, ErrNoEmail
	}

	return &Profile{
		ProviderID:   userInfo.Id,
		Email:        userInfo.Email,
		Name:         userInfo.Name,
		Avatar:       userInfo.Picture,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// googleConfig holds Google OAuth client configuration.
type googleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `env:"GOOGLE_CALLBACK_URL"`
}

// newGoogleConfig creates a googleConfig instance from environment variables.
func newGoogleConfig(logger *zerolog.Logger) *googleConfig {
	cfg, err := env.ParseAs[googleConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

// validate checks if the Google OAuth configuration is valid.
func (c *googleConfig) validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("missing GOOGLE_CLIENT_ID environment variable")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("missing GOOGLE_CLIENT_SECRET environment variable")
	}
	if c.RedirectURL == "" {
		return fmt.Errorf("missing GOOGLE_CALLBACK_URL environment variable")
	}

	return nil
}
