package roles

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/homescope/listings/internal/response"
)

func setupTestHandler(t *testing.T) (*Handler, *Repository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))

	repo := NewRepository(db, zerolog.Nop())
	return NewHandler(repo, zerolog.Nop()), repo
}

func testRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/v1/role", h.Routes)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreate(t *testing.T) {
	h, _ := setupTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodPost, "/v1/role/addRole", map[string]string{
		"roleName": "manager", "createdBy": "admin",
		"status": "active", "permission": "read,write",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "Role created successfully", env.Message)
}

func TestHandleCreate_Validation(t *testing.T) {
	h, _ := setupTestHandler(t)
	router := testRouter(h)

	tests := []struct {
		name    string
		payload map[string]string
		message string
	}{
		{"missing roleName", map[string]string{"createdBy": "admin", "status": "active", "permission": "read"}, "RoleName is required"},
		{"missing status", map[string]string{"roleName": "x", "createdBy": "admin", "permission": "read"}, "Status is required"},
		{"bad status", map[string]string{"roleName": "x", "createdBy": "admin", "status": "Active", "permission": "read"}, "Status must be active or inactive"},
		{"missing permission", map[string]string{"roleName": "x", "createdBy": "admin", "status": "active"}, "Permission is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/v1/role/addRole", tt.payload)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var env response.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, response.CodeValidation, env.Code)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestHandleGet_HardNotFound(t *testing.T) {
	h, _ := setupTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodGet, "/v1/role/getRole/42", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, response.CodeNotFound, env.Code)
	assert.Equal(t, "Role not found", env.Message)
}

func TestHandleUpdateStatus(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	role, err := repo.Create(&Role{
		RoleName: "agent", CreatedBy: "admin",
		Status: StatusActive, Permission: "read",
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/role/removeRole/%d", role.ID),
		map[string]string{"status": "inactive"})
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := repo.GetByID(role.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, updated.Status)
}

func TestHandleDelete(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	role, err := repo.Create(&Role{
		RoleName: "temp", CreatedBy: "admin",
		Status: StatusActive, Permission: "read",
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/v1/role/deleteRole/%d", role.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Role deleted successfully", env.Message)
	assert.Empty(t, env.Data)

	found, err := repo.GetByID(role.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestHandleList(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	for _, name := range []string{"admin", "agent", "viewer"} {
		_, err := repo.Create(&Role{
			RoleName: name, CreatedBy: "admin",
			Status: StatusActive, Permission: "read",
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, router, http.MethodGet, "/v1/role/allRoles", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []Role `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data, 3)
}
