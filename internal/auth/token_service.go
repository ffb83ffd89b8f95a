// Package auth provides JWT token issuing/validation and the gin
// authentication middleware.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/allisson/go-shop-api/internal/errors"
)

var (
	// ErrInvalidToken indicates the token failed signature or structure checks.
	ErrInvalidToken = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token")

	// ErrExpiredToken indicates the token is past its expiration.
	ErrExpiredToken = apperrors.Wrap(apperrors.ErrUnauthorized, "token expired")
)

// Claims carries the authenticated user ID alongside the registered claims.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 tokens.
type TokenService struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewTokenService creates a new TokenService
func NewTokenService(secretKey string, tokenDuration time.Duration) *TokenService {
	return &TokenService{
		secretKey:     []byte(secretKey),
		tokenDuration: tokenDuration,
	}
}

// Generate signs a token for the given user ID.
func (s *TokenService) Generate(userID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate parses and verifies a token, returning its claims. Only HMAC
// signatures are accepted; a token signed with any other method is invalid.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
