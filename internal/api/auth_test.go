package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simple2B/bidhive-ml-api/internal/auth"
)

func TestTokensEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/auth/tokens", "", map[string]any{
		"user_info":  map[string]any{"user_id": 56, "company_id": 78, "is_admin": true},
		"secret_key": "shared-api-secret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	require.NotEmpty(t, body.RefreshToken)
	assert.NotEqual(t, body.AccessToken, body.RefreshToken)

	info, err := auth.VerifyAccessToken(env.cfg, body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(56), info.UserID)
	assert.Equal(t, uint(78), info.CompanyID)
	assert.True(t, info.IsAdmin)
}

func TestTokensEndpoint_WrongSecret(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/auth/tokens", "", map[string]any{
		"user_info":  map[string]any{"user_id": 1, "company_id": 2},
		"secret_key": "guessed",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRefreshTokenEndpoint(t *testing.T) {
	env := newTestEnv(t)
	info := auth.UserInfo{UserID: 12, CompanyID: 87}

	refreshToken, err := auth.CreateRefreshToken(env.cfg, info)
	require.NoError(t, err)

	resp := env.request(t, http.MethodPost, "/auth/refresh-token", "", map[string]any{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)

	decoded, err := auth.VerifyAccessToken(env.cfg, body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, info, decoded)
}

func TestRefreshTokenEndpoint_TamperedToken(t *testing.T) {
	env := newTestEnv(t)

	refreshToken, err := auth.CreateRefreshToken(env.cfg, auth.UserInfo{UserID: 1, CompanyID: 2})
	require.NoError(t, err)
	tampered := refreshToken[:len(refreshToken)-2] + "xx"

	resp := env.request(t, http.MethodPost, "/auth/refresh-token", "", map[string]any{
		"refresh_token": tampered,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	decodeJSON(t, resp, &body)
	// no new access token on a bad refresh token
	assert.Empty(t, body.AccessToken)
	assert.NotEmpty(t, body.Error)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	env := newTestEnv(t)

	// missing header
	resp := env.request(t, http.MethodPost, "/search/prompt", "", map[string]any{"prompt": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// garbage token
	resp = env.request(t, http.MethodPost, "/search/prompt", "garbage", map[string]any{"prompt": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
