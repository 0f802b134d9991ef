package contacts

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
	r.Route("/v1/contact", h.Routes)
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

func TestHandleCreate_DefaultsToNotConnected(t *testing.T) {
	h, _ := setupTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodPost, "/v1/contact/createContact", map[string]string{
		"name":        "Jane",
		"phoneNumber": "5551234",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)

	data := env.Data.(map[string]interface{})
	assert.Equal(t, "Jane", data["name"])
	assert.Equal(t, "5551234", data["phoneNumber"])
	assert.Equal(t, StatusNotConnected, data["status"])
	assert.NotEmpty(t, data["createdOn"])
}

func TestHandleCreate_Validation(t *testing.T) {
	h, _ := setupTestHandler(t)
	router := testRouter(h)

	tests := []struct {
		name    string
		payload map[string]string
		message string
	}{
		{"missing name", map[string]string{"phoneNumber": "5551234"}, "Name is required"},
		{"blank name", map[string]string{"name": "   ", "phoneNumber": "5551234"}, "Name is required"},
		{"missing phone", map[string]string{"name": "Jane"}, "Phone Number is required"},
		{"bad status", map[string]string{"name": "Jane", "phoneNumber": "5551234", "status": "Lost"}, "Valid status is required"},
		{"other without reason", map[string]string{"name": "Jane", "phoneNumber": "5551234", "status": "Other"}, `Status reason is required when status is "Other"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/v1/contact/createContact", tt.payload)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var env response.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.Equal(t, response.CodeValidation, env.Code)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestHandleUpdate_KeepsOmittedFields(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	contact, err := repo.Create(&Contact{
		Name: "Jane", Email: "jane@example.com", PhoneNumber: "5551234",
		Message: "call me back", Status: StatusConnected,
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/contact/updateContact/%d", contact.ID),
		map[string]string{"name": "Jane Doe", "phoneNumber": "5559999"})
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := repo.GetByID(contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, "5559999", updated.PhoneNumber)
	assert.Equal(t, StatusConnected, updated.Status)
	assert.Equal(t, "jane@example.com", updated.Email)
	assert.Equal(t, "call me back", updated.Message)
}

func TestHandleUpdate_NoMandatoryFields(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	contact, err := repo.Create(&Contact{
		Name: "Jane", PhoneNumber: "5551234", Status: StatusNotConnected,
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/contact/updateContact/%d", contact.ID),
		map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := repo.GetByID(contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, "5551234", updated.PhoneNumber)
}

func TestHandleUpdate_RejectsBadStatus(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	contact, err := repo.Create(&Contact{
		Name: "Jane", PhoneNumber: "5551234", Status: StatusNotConnected,
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/contact/updateContact/%d", contact.ID),
		map[string]string{"status": "Lost"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env response.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Valid status is required", env.Message)
}

func TestHandleUpdateStatus_OtherRequiresReason(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	contact, err := repo.Create(&Contact{
		Name: "Jane", PhoneNumber: "5551234", Status: StatusNotConnected,
	})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/contact/removeContact/%d", contact.ID),
		map[string]string{"status": "Other"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, fmt.Sprintf("/v1/contact/removeContact/%d", contact.ID),
		map[string]string{"status": "Other", "statusReason": "Wrong number"})
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := repo.GetByID(contact.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusOther, updated.Status)
	assert.Equal(t, "Wrong number", updated.StatusReason)
}

func TestHandleList_PhoneNumberSearch(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	phones := []string{"5551234", "5555678", "9991234"}
	for i, phone := range phones {
		_, err := repo.Create(&Contact{
			Name: fmt.Sprintf("Contact %d", i), PhoneNumber: phone, Status: StatusNotConnected,
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, router, http.MethodGet, "/v1/contact/getAllContacts?phoneNumber=1234", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 2, env.Data.TotalContacts)
}

func TestHandleList_Empty(t *testing.T) {
	h, _ := setupTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodGet, "/v1/contact/getAllContacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "No contacts found", env.Message)
	assert.Empty(t, env.Data)
}

func TestHandleCount(t *testing.T) {
	h, repo := setupTestHandler(t)
	router := testRouter(h)

	for i := 0; i < 4; i++ {
		_, err := repo.Create(&Contact{
			Name: fmt.Sprintf("C%d", i), PhoneNumber: fmt.Sprintf("555%04d", i), Status: StatusNotConnected,
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, router, http.MethodGet, "/v1/contact/count", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 4, env.Data["count"])
}

func TestHandleDelete_SoftNotFound(t *testing.T) {
	h, _ := setupTestHandler(t)
	router := testRouter(h)

	rec := doJSON(t, router, http.MethodDelete, "/v1/contact/deleteContact/77", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Empty(t, env.Data)
}
