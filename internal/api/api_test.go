package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/Simple2B/bidhive-ml-api/internal/auth"
	"github.com/Simple2B/bidhive-ml-api/internal/config"
	"github.com/Simple2B/bidhive-ml-api/internal/queue"
	"github.com/Simple2B/bidhive-ml-api/internal/service"
	"github.com/Simple2B/bidhive-ml-api/internal/testutil"
)

// testEnv bundles the app with its in-memory collaborators.
type testEnv struct {
	cfg      *config.Config
	app      *fiber.App
	repo     *testutil.MemFileRepo
	storage  *testutil.MemStorage
	embedder *testutil.MockEmbedder
	datasets *service.DatasetStore
	queue    *queue.Queue
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:                "access-secret",
		RefreshSecret:            "refresh-secret",
		AccessTokenExpireMinutes: 30,
		RefreshTokenExpireDays:   3,
		APISecretKey:             "shared-api-secret",
		EmbeddingTimeout:         5 * time.Second,
		SearchTopK:               1,
	}

	env := &testEnv{
		cfg:      cfg,
		app:      fiber.New(),
		repo:     testutil.NewMemFileRepo(),
		storage:  testutil.NewMemStorage(),
		embedder: testutil.NewMockEmbedder(),
		queue:    queue.NewQueue(),
	}
	env.datasets = service.NewDatasetStore(env.storage, false)

	RegisterAuthRoutes(env.app, cfg)
	RegisterUploadRoutes(env.app, cfg, env.repo, env.storage, env.queue)
	RegisterFileListRoute(env.app, cfg, env.repo)
	RegisterSearchRoutes(env.app, cfg, env.repo, env.datasets, env.embedder)

	return env
}

func (e *testEnv) token(t *testing.T, info auth.UserInfo) string {
	t.Helper()
	token, err := auth.CreateAccessToken(e.cfg, info)
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, method, target, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "JWT "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

// multipartUpload posts files plus contract metadata to /documents/upload.
func (e *testEnv) multipartUpload(t *testing.T, token string, files map[string]string, fields map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for key, val := range fields {
		require.NoError(t, writer.WriteField(key, val))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "JWT "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
