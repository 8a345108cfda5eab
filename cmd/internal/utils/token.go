package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var (
	ErrNoToken      = errors.New("no bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// TokenData is the part of the access token the service relies on.
type TokenData struct {
	Sub string
}

// ParseTokenDataCtx reads the bearer token of the request. ErrNoToken is
// returned when the request carries no Authorization header at all.
func ParseTokenDataCtx(c echo.Context, secret []byte) (*TokenData, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return nil, ErrNoToken
	}

	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || raw == "" {
		return nil, ErrInvalidToken
	}
	return ParseToken(raw, secret)
}

func ParseToken(raw string, secret []byte) (*TokenData, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &TokenData{Sub: claims.Subject}, nil
}

// SignToken issues an HS256 token for sub that expires after ttl.
func SignToken(sub string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
