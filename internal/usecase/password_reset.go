package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/teerapatl/aqualog-api/internal/repository"
	"github.com/teerapatl/aqualog-api/pkg/security"
)

// PasswordResetUsecase defines the business logic for the password reset
// token lifecycle.
type PasswordResetUsecase interface {
	// RequestPasswordReset initiates the password reset process for a given
	// email. It succeeds whether or not the email is registered.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword consumes a reset secret and sets the new password. A
	// secret authenticates exactly one reset.
	ResetPassword(ctx context.Context, rawSecret, newPassword string) error

	// ValidateResetToken checks whether a reset secret is still valid
	// without consuming it.
	ValidateResetToken(ctx context.Context, rawSecret string) error
}

// ErrInvalidOrExpiredToken covers never-issued, already-consumed and expired
// reset secrets alike.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired password reset token")

// ResetMailer is the outbound email capability the reset flow depends on.
// *mailer.Mailer satisfies it.
type ResetMailer interface {
	SendHTML(to []string, subject, htmlBody string) error
}

type passwordResetUsecase struct {
	userRepo  repository.UserRepository
	mailer    ResetMailer
	resetURL  string
	expiresIn time.Duration
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
// resetURL is the client page the emailed link points at.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	mailer ResetMailer,
	resetURL string,
	expiresIn time.Duration,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:  userRepo,
		mailer:    mailer,
		resetURL:  resetURL,
		expiresIn: expiresIn,
	}
}

func (u *passwordResetUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// To prevent email enumeration, do not reveal that the email does not exist.
			return nil
		}
		return err
	}

	rawSecret, err := generateResetSecret()
	if err != nil {
		return err
	}

	// Only the digest is persisted; the raw secret lives solely in the email.
	expiresAt := time.Now().Add(u.expiresIn)
	if err := u.userRepo.SetResetDigest(ctx, user.ID.Hex(), digestSecret(rawSecret), expiresAt); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s?token=%s", u.resetURL, rawSecret)
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>If you made this request, please click the link below to create a new password:</p>

		<p><a href="%s">%s</a></p>

		<p>This link will expire in %s for your security.</p>
		<p>If you did not request a password reset, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>Aqualog Team</p>
	`, user.Name, resetLink, resetLink, u.expiresIn)

	return u.mailer.SendHTML([]string{user.Email}, "Password Reset Request", htmlBody)
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, rawSecret, newPassword string) error {
	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	// The digest match, expiry check, password swap and reset-field clearing
	// happen in one atomic update, so a secret can never be consumed twice.
	_, err = u.userRepo.ConsumeResetDigest(ctx, digestSecret(rawSecret), passwordHash)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	return nil
}

func (u *passwordResetUsecase) ValidateResetToken(ctx context.Context, rawSecret string) error {
	_, err := u.userRepo.GetUserByResetDigest(ctx, digestSecret(rawSecret))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}

	return nil
}

// generateResetSecret returns a cryptographically random single-use secret.
func generateResetSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// digestSecret maps a raw secret to its irreversible stored form.
func digestSecret(rawSecret string) string {
	sum := sha256.Sum256([]byte(rawSecret))
	return hex.EncodeToString(sum[:])
}
