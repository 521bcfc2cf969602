package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/teerapatl/aqualog-api/internal/config"
	"github.com/teerapatl/aqualog-api/internal/handler"
	"github.com/teerapatl/aqualog-api/internal/repository"
	"github.com/teerapatl/aqualog-api/internal/usecase"
	"github.com/teerapatl/aqualog-api/pkg/auth"
	"github.com/teerapatl/aqualog-api/pkg/mailer"
	"github.com/teerapatl/aqualog-api/pkg/provider"
	"github.com/teerapatl/aqualog-api/pkg/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := config.New(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping MongoDB")
	}

	db := client.Database(cfg.Mongo.Database)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	waterRepo := repository.NewWaterEntryMongoRepository(ctx, &logger, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.ExpiresIn)
	mail := mailer.NewMailer(&logger)
	google := provider.NewGoogleProvider(&logger)

	valid, err := validator.New()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize validator")
	}

	authUsecase := usecase.NewAuthUsecase(userRepo, jwtAuth)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(
		userRepo,
		mail,
		cfg.ClientURL+"/reset-password",
		cfg.Token.PasswordResetTokenExpiresIn,
	)
	userUsecase := usecase.NewUserUsecase(userRepo)
	waterUsecase := usecase.NewWaterUsecase(waterRepo)

	router := handler.NewRouter(handler.RouterParams{
		AuthHandler: handler.NewAuthHandler(
			authUsecase,
			passwordResetUsecase,
			google,
			valid,
			&logger,
			cfg.ClientURL,
		),
		UserHandler:  handler.NewUserHandler(userUsecase, valid, &logger),
		WaterHandler: handler.NewWaterHandler(waterUsecase, valid, &logger),
		JWTAuth:      jwtAuth,
		UserRepo:     userRepo,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("starting HTTP server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shut down HTTP server gracefully")
		}
	}
}
