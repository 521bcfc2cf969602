package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Callers must
// not be able to distinguish a bad signature from a malformed or expired
// token, so all of them collapse into this single error.
var ErrInvalidToken = errors.New("invalid token")

// JWTAuthenticator issues and verifies HS256 signed bearer tokens carrying
// a single subject claim. The secret and lifetime are set once at startup
// and never change afterwards.
type JWTAuthenticator struct {
	secret    []byte
	issuer    string
	expiresIn time.Duration
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(secret, issuer string, expiresIn time.Duration) JWTAuthenticator {
	return JWTAuthenticator{
		secret:    []byte(secret),
		issuer:    issuer,
		expiresIn: expiresIn,
	}
}

// GenerateToken generates a signed token whose subject is the given user ID,
// expiring after the configured lifetime.
func (a *JWTAuthenticator) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    a.issuer,
		Audience:  jwt.ClaimStrings{a.issuer},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.expiresIn)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// VerifyToken checks the token's signature and expiry and returns the
// embedded subject (user ID). Any failure yields ErrInvalidToken.
func (a *JWTAuthenticator) VerifyToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return a.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.issuer),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}

	return subject, nil
}
