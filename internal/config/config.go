package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the process-wide configuration, loaded once at startup and
// immutable afterwards.
type Config struct {
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	ClientURL  string `env:"CLIENT_URL"  envDefault:"http://localhost:3000"`

	Mongo MongoConfig
	Token TokenConfig
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DATABASE" envDefault:"aqualog"`
}

// TokenConfig holds signing material and lifetimes for issued tokens.
type TokenConfig struct {
	Secret                      string        `env:"TOKEN_SECRET"`
	Issuer                      string        `env:"TOKEN_ISSUER"                    envDefault:"aqualog-api"`
	ExpiresIn                   time.Duration `env:"TOKEN_EXPIRES_IN"                envDefault:"720h"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_TOKEN_EXPIRES_IN" envDefault:"1h"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks if the configuration is valid.
func (c *Config) validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}

	return nil
}
