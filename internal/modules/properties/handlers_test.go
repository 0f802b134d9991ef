package properties

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/homescope/listings/internal/cookies"
	"github.com/homescope/listings/internal/media"
	"github.com/homescope/listings/internal/personalization"
	"github.com/homescope/listings/internal/response"
	"github.com/homescope/listings/internal/sequence"
)

var testKey = bytes.Repeat([]byte{0x24}, 32)

type testEnv struct {
	handler *Handler
	repo    *Repository
	store   *media.MemoryStore
	manager *cookies.Manager
	router  *chi.Mux
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, InitSchema(db))
	require.NoError(t, sequence.InitSchema(db))
	require.NoError(t, sequence.Seed(db, "property", "properties"))

	codec, err := cookies.NewCodec(testKey)
	require.NoError(t, err)
	manager := cookies.NewManager(codec, zerolog.Nop())

	repo := NewRepository(db, zerolog.Nop())
	store := media.NewMemoryStore()
	uploader := media.NewUploader(store, zerolog.Nop())
	gen := sequence.New(db, "property", "prop", zerolog.Nop())
	handler := NewHandler(repo, gen, uploader, manager, zerolog.Nop())

	router := chi.NewRouter()
	router.Route("/v1/property", handler.Routes)

	return &testEnv{handler: handler, repo: repo, store: store, manager: manager, router: router}
}

func propertyFields() map[string]string {
	return map[string]string{
		"location":        "Pune",
		"address":         "12 Baner Road",
		"projectName":     "Skyline Heights",
		"subLocation":     "Baner",
		"reraNo":          "P521000001",
		"reraApproved":    "Yes",
		"property":        "Residential",
		"propertyType":    "Apartment",
		"propertyFor":     "Sale",
		"propertySubtype": "2BHK",
		"facility":        "Gym, Pool",
		"connectivity":    "Metro 2km",
		"offeredCost":     "7500000",
		"currentCost":     "7800000",
		"documents":       "Sale deed",
		"usp":             "Corner unit",
		"loanApplicable":  "Yes",
		"registeredNo":    "REG-100",
		"paymentOptions":  "EMI",
		"size":            "980 sqft",
		"returnRY":        "4.2",
		"status":          "Pending",
		"createdBy":       "admin",
		"createdOn":       "2019-01-01T00:00:00Z",
		"updatedOn":       "2019-01-01T00:00:00Z",
	}
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 6))
	for x := 0; x < 6; x++ {
		for y := 0; y < 6; y++ {
			img.Set(x, y, color.RGBA{R: uint8(40 * x), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, fields map[string]string, mediaFiles [][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for i, data := range mediaFiles {
		part, err := mw.CreateFormFile("media", fmt.Sprintf("photo%d.png", i))
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func doMultipart(t *testing.T, router http.Handler, method, path string, fields map[string]string, mediaFiles [][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, mediaFiles)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedProperty(t *testing.T, repo *Repository, propertyNo, location, propertyType string) *Property {
	t.Helper()
	p := &Property{
		PropertyNo: propertyNo, Location: location, Address: "addr",
		ProjectName: "proj", SubLocation: "sub", ReraNo: "r", ReraApproved: "Yes",
		Property: "Residential", PropertyType: propertyType, PropertyFor: "Sale",
		PropertySubtype: "2BHK", Facility: "f", Connectivity: "c",
		OfferedCost: "1", CurrentCost: "1", Documents: "d", USP: "u",
		LoanApplicable: "Yes", RegisteredNo: "reg", PaymentOptions: "EMI",
		Size: "s", ReturnRY: "1", Status: StatusActive, CreatedBy: "admin",
	}
	created, err := repo.Create(p)
	require.NoError(t, err)
	return created
}

func TestHandleCreate_WithMedia(t *testing.T) {
	env := setupTestEnv(t)

	rec := doMultipart(t, env.router, http.MethodPost, "/v1/property/addProperty",
		propertyFields(), [][]byte{testPNG(t), testPNG(t)})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var envl response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envl))
	data := envl.Data.(map[string]interface{})
	assert.Equal(t, "prop1", data["propertyNo"])

	// Client-sent timestamps are required but overwritten server-side
	assert.NotEqual(t, "2019-01-01T00:00:00Z", data["createdOn"])
	assert.NotEqual(t, "2019-01-01T00:00:00Z", data["updatedOn"])

	urls := data["media"].([]interface{})
	require.Len(t, urls, 2)
	for _, u := range urls {
		assert.Contains(t, u.(string), "?w=6&h=6&c=fill")
	}
	assert.Equal(t, 2, env.store.Len())
}

func TestHandleCreate_Validation(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		field   string
		message string
	}{
		{"location", "Location is required"},
		{"address", "Address is required"},
		{"projectName", "Project Name is required"},
		{"subLocation", "Sub-Location is required"},
		{"reraNo", "RERA Number is required"},
		{"usp", "USP is required"},
		{"returnRY", "Return (RY) is required"},
		{"createdBy", "Created By is required"},
		{"createdOn", "Created On is required"},
		{"updatedOn", "Updated On is required"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			fields := propertyFields()
			delete(fields, tt.field)

			rec := doMultipart(t, env.router, http.MethodPost, "/v1/property/addProperty", fields, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var envl response.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envl))
			assert.Equal(t, response.CodeValidation, envl.Code)
			assert.Equal(t, tt.message, envl.Message)
		})
	}
}

func TestHandleList_SearchBypassesPagination(t *testing.T) {
	env := setupTestEnv(t)

	for i := 0; i < 50; i++ {
		location := "Mumbai"
		if i < 3 {
			location = "Nagpur"
		}
		seedProperty(t, env.repo, fmt.Sprintf("prop%d", i+1), location, "Apartment")
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/property/getAllProperties?location=nagpur&limit=2", nil)
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var envl struct {
		Data ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envl))

	// All matches on one page, the limit is ignored
	assert.Len(t, envl.Data.Properties, 3)
	assert.Equal(t, 1, envl.Data.TotalPages)
	assert.Equal(t, 3, envl.Data.TotalProperties)
}

func TestHandleList_Pagination(t *testing.T) {
	env := setupTestEnv(t)

	for i := 0; i < 25; i++ {
		seedProperty(t, env.repo, fmt.Sprintf("prop%d", i+1), "Mumbai", "Apartment")
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/property/getAllProperties?page=2&limit=10", nil)
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var envl struct {
		Data ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envl))
	assert.Len(t, envl.Data.Properties, 10)
	assert.Equal(t, 3, envl.Data.TotalPages)
	assert.Equal(t, 2, envl.Data.CurrentPage)
	assert.Equal(t, 25, envl.Data.TotalProperties)
}

func TestHandleList_SetsPreferenceCookies(t *testing.T) {
	env := setupTestEnv(t)
	seedProperty(t, env.repo, "prop1", "Pune", "Villa")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/property/getAllProperties?location=Pune&propertyType=Villa", nil)
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
		// Preference cookies never carry the raw value
		assert.NotEqual(t, "Pune", c.Value)
		assert.NotEqual(t, "Villa", c.Value)
	}
	assert.True(t, names[personalization.CookiePreferredLocation])
	assert.True(t, names[personalization.CookiePreferredType])
	assert.False(t, names[personalization.CookiePreferredFor])
}

func TestHandleList_FallsBackToPreferenceCookies(t *testing.T) {
	env := setupTestEnv(t)
	seedProperty(t, env.repo, "prop1", "Pune", "Villa")
	seedProperty(t, env.repo, "prop2", "Mumbai", "Apartment")

	// Capture an encrypted preferredLocation cookie
	seed := httptest.NewRecorder()
	require.NoError(t, env.manager.Set(seed, personalization.CookiePreferredLocation, "Pune"))
	cookie := seed.Result().Cookies()[0]

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/property/getAllProperties", nil)
	req.AddCookie(cookie)
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var envl struct {
		Data ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envl))
	require.Len(t, envl.Data.Properties, 1)
	assert.Equal(t, "Pune", envl.Data.Properties[0].Location)
}

func TestHandleGet_SoftNotFound(t *testing.T) {
	env := setupTestEnv(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/property/getProperty/404", nil)
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var envl response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envl))
	assert.True(t, envl.Success)
	assert.Equal(t, "Property not found", envl.Message)
	assert.Empty(t, envl.Data)
}

func TestHandleUpdate_ReplacesMedia(t *testing.T) {
	env := setupTestEnv(t)
	p := seedProperty(t, env.repo, "prop1", "Pune", "Villa")

	rec := doMultipart(t, env.router, http.MethodPut,
		fmt.Sprintf("/v1/property/updateProperty/%d", p.ID),
		propertyFields(), [][]byte{testPNG(t)})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated, err := env.repo.GetByID(p.ID)
	require.NoError(t, err)
	require.Len(t, updated.Media, 1)
	// propertyNo survives updates
	assert.Equal(t, "prop1", updated.PropertyNo)
}

func TestHandleUpdateStatus(t *testing.T) {
	env := setupTestEnv(t)
	p := seedProperty(t, env.repo, "prop1", "Pune", "Villa")

	body := bytes.NewBufferString(`{"status":"Inactive"}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/v1/property/removeProperty/%d", p.ID), body)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	updated, err := env.repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, updated.Status)

	body = bytes.NewBufferString(`{"status":"Archived"}`)
	req = httptest.NewRequest(http.MethodPut, fmt.Sprintf("/v1/property/removeProperty/%d", p.ID), body)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	env := setupTestEnv(t)
	p := seedProperty(t, env.repo, "prop1", "Pune", "Villa")

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/v1/property/deleteProperty/%d", p.ID), nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	found, err := env.repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}
