package auth

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/homescope/listings/internal/modules/users"
	"github.com/homescope/listings/internal/response"
)

var testSecret = []byte("test-jwt-secret")

func setupTestHandler(t *testing.T) (*Handler, *users.User, *chi.Mux) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, users.InitSchema(db))

	repo := users.NewRepository(db, zerolog.Nop())

	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	user, err := repo.Create(&users.User{
		Name: "Asha", Email: "asha@example.com", PasswordHash: string(hash),
		PrimaryPhone: "1", SecondaryPhone: "2", Role: "admin",
		Status: users.StatusActive, CreatedBy: "admin",
	})
	require.NoError(t, err)

	h := NewHandler(repo, testSecret, zerolog.Nop())
	router := chi.NewRouter()
	router.Route("/v1/auth", h.LoginRoutes)
	router.Route("/v1/get", h.ProfileRoutes)
	return h, user, router
}

func login(t *testing.T, router http.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleLogin(t *testing.T) {
	_, user, router := setupTestHandler(t)

	rec := login(t, router, "asha@example.com", "open-sesame")
	require.Equal(t, http.StatusOK, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Login successful", env.Message)

	token := env.Data.(map[string]interface{})["token"].(string)
	require.NotEmpty(t, token)

	id, err := UserIDFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "authToken" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	// The token is stored as-is, not in the ivHex:cipherHex cookie format
	assert.Equal(t, token, cookie.Value)
	assert.NotContains(t, cookie.Value, ":")
	assert.True(t, cookie.HttpOnly)
}

func TestHandleLogin_BadCredentials(t *testing.T) {
	_, _, router := setupTestHandler(t)

	rec := login(t, router, "asha@example.com", "wrong")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = login(t, router, "nobody@example.com", "open-sesame")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, response.CodeUnauthorized, env.Code)
}

func TestHandleLogin_MissingFields(t *testing.T) {
	_, _, router := setupTestHandler(t)

	rec := login(t, router, "asha@example.com", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Email and password are required", env.Message)
}

func TestHandleProfile(t *testing.T) {
	_, user, router := setupTestHandler(t)

	token, err := GenerateToken(user.ID, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/get/profile", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	data := env.Data.(map[string]interface{})
	assert.Equal(t, "asha@example.com", data["email"])
	assert.NotContains(t, data, "passwordHash")
}

func TestHandleProfile_NoToken(t *testing.T) {
	_, _, router := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/get/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "No token provided", env.Message)
}

func TestHandleProfile_InvalidToken(t *testing.T) {
	_, _, router := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/get/profile", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: "garbage.token.here"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleProfile_ExpiredToken(t *testing.T) {
	_, _, router := setupTestHandler(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	token, err := expired.SignedString(testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/get/profile", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleProfile_UnknownUser(t *testing.T) {
	_, _, router := setupTestHandler(t)

	token, err := GenerateToken(99999, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/get/profile", nil)
	req.AddCookie(&http.Cookie{Name: "authToken", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "User not found", env.Message)
}
