package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simple2B/bidhive-ml-api/internal/auth"
	"github.com/Simple2B/bidhive-ml-api/internal/model"
)

func TestUpload_RequiresAdminToken(t *testing.T) {
	env := newTestEnv(t)
	files := map[string]string{"doc.txt": "<q1>q?</q1><a1>a</a1>"}

	resp := env.multipartUpload(t, "", files, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	userToken := env.token(t, auth.UserInfo{UserID: 1, CompanyID: 2})
	resp = env.multipartUpload(t, userToken, files, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUpload_AcceptsDocumentAndQueuesIt(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.token(t, auth.UserInfo{UserID: 1, CompanyID: 2, IsAdmin: true})

	resp := env.multipartUpload(t, adminToken,
		map[string]string{"contract.txt": "<q1>q?</q1><a1>a</a1>"},
		map[string]string{
			"contract_title": "Tier 3 Service",
			"customer_name":  "NHS Trust",
			"contract_value": "250000",
		})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		FileCount int `json:"fileCount"`
		Files     []struct {
			ID      uint   `json:"id"`
			Status  string `json:"status"`
			Skipped bool   `json:"skipped"`
		} `json:"files"`
	}
	decodeJSON(t, resp, &body)
	require.Equal(t, 1, body.FileCount)
	assert.Equal(t, model.StatusQueued, body.Files[0].Status)
	assert.False(t, body.Files[0].Skipped)

	record, err := env.repo.FindByID(body.Files[0].ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, uint(2), record.CompanyID)
	assert.Equal(t, "Tier 3 Service", record.ContractTitle)
	assert.Equal(t, "NHS Trust", record.CustomerName)
	assert.Equal(t, int64(250000), record.ContractValue)
	assert.Equal(t, "USD", record.CurrencyType) // defaulted
	assert.True(t, env.storage.Has(record.StoragePath))
}

func TestUpload_RejectsWrongExtension(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.token(t, auth.UserInfo{UserID: 1, CompanyID: 2, IsAdmin: true})

	resp := env.multipartUpload(t, adminToken,
		map[string]string{"image.png": "not a document"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Failures []struct {
			Filename string `json:"filename"`
			Reason   string `json:"reason"`
		} `json:"failures"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Failures, 1)
	assert.Equal(t, "image.png", body.Failures[0].Filename)
	assert.NotEmpty(t, body.Failures[0].Reason)

	assert.Equal(t, 0, env.repo.Count())
}

func TestUpload_DuplicateIsSkippedNotFailed(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.token(t, auth.UserInfo{UserID: 1, CompanyID: 2, IsAdmin: true})
	files := map[string]string{"contract.txt": "<q1>q?</q1><a1>a</a1>"}

	resp := env.multipartUpload(t, adminToken, files, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, 1, env.repo.Count())

	resp = env.multipartUpload(t, adminToken, files, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Files []struct {
			ID      uint `json:"id"`
			Skipped bool `json:"skipped"`
		} `json:"files"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Files, 1)
	assert.True(t, body.Files[0].Skipped)

	// still exactly one metadata record
	assert.Equal(t, 1, env.repo.Count())
}

func TestUpload_SameNameDifferentContentIsNotADuplicate(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.token(t, auth.UserInfo{UserID: 1, CompanyID: 2, IsAdmin: true})

	resp := env.multipartUpload(t, adminToken,
		map[string]string{"contract.txt": "<q1>v1?</q1><a1>one</a1>"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = env.multipartUpload(t, adminToken,
		map[string]string{"contract.txt": "<q1>v2?</q1><a1>two</a1>"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	assert.Equal(t, 2, env.repo.Count())
}
