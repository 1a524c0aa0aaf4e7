// Package auth mints and verifies the HS256 token pair. Access and refresh
// tokens are signed with separate secrets so a leaked access secret cannot
// be used to mint refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Simple2B/bidhive-ml-api/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// UserInfo is the identity carried inside a token.
type UserInfo struct {
	UserID    uint `json:"user_id"`
	CompanyID uint `json:"company_id"`
	IsAdmin   bool `json:"is_admin"`
}

type tokenClaims struct {
	UserID    uint `json:"user_id"`
	CompanyID uint `json:"company_id"`
	IsAdmin   bool `json:"is_admin"`
	jwt.RegisteredClaims
}

func CreateAccessToken(cfg *config.Config, info UserInfo) (string, error) {
	ttl := time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute
	return createToken(cfg.JWTSecret, info, ttl)
}

func CreateRefreshToken(cfg *config.Config, info UserInfo) (string, error) {
	ttl := time.Duration(cfg.RefreshTokenExpireDays) * 24 * time.Hour
	return createToken(cfg.RefreshSecret, info, ttl)
}

func VerifyAccessToken(cfg *config.Config, token string) (UserInfo, error) {
	return verifyToken(cfg.JWTSecret, token)
}

// VerifyRefreshToken validates the refresh token and returns a fresh
// access token for the same identity.
func VerifyRefreshToken(cfg *config.Config, refreshToken string) (string, error) {
	info, err := verifyToken(cfg.RefreshSecret, refreshToken)
	if err != nil {
		return "", err
	}
	return CreateAccessToken(cfg, info)
}

func createToken(secret string, info UserInfo, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		UserID:    info.UserID,
		CompanyID: info.CompanyID,
		IsAdmin:   info.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func verifyToken(secret, token string) (UserInfo, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return UserInfo{}, ErrInvalidToken
	}

	return UserInfo{
		UserID:    claims.UserID,
		CompanyID: claims.CompanyID,
		IsAdmin:   claims.IsAdmin,
	}, nil
}
