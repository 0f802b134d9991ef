package properties

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/homescope/listings/internal/cookies"
	"github.com/homescope/listings/internal/media"
	"github.com/homescope/listings/internal/personalization"
	"github.com/homescope/listings/internal/response"
	"github.com/homescope/listings/internal/sequence"
)

// maxMediaFiles caps how many images a single create or update accepts
const maxMediaFiles = 10

// maxMultipartMemory bounds in-memory multipart parsing (32 MiB)
const maxMultipartMemory = 32 << 20

// Handler handles property HTTP requests
type Handler struct {
	repo     *Repository
	seq      *sequence.Generator
	uploader *media.Uploader
	cookies  *cookies.Manager
	log      zerolog.Logger
}

// NewHandler creates a new property handler
func NewHandler(repo *Repository, seq *sequence.Generator, uploader *media.Uploader, cm *cookies.Manager, log zerolog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		seq:      seq,
		uploader: uploader,
		cookies:  cm,
		log:      log.With().Str("handler", "properties").Logger(),
	}
}

// Routes mounts the property endpoints on the given router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/addProperty", h.HandleCreate)
	r.Get("/getAllProperties", h.HandleList)
	r.Get("/getProperty/{id}", h.HandleGet)
	r.Put("/updateProperty/{id}", h.HandleUpdate)
	r.Delete("/deleteProperty/{id}", h.HandleDelete)
	r.Put("/removeProperty/{id}", h.HandleUpdateStatus)
}

// propertyForm reads the multipart fields of a create or update request
type propertyForm struct {
	Location        string
	Address         string
	ProjectName     string
	SubLocation     string
	ReraNo          string
	ReraApproved    string
	Property        string
	PropertyType    string
	PropertyFor     string
	PropertySubtype string
	Facility        string
	Connectivity    string
	OfferedCost     string
	CurrentCost     string
	Documents       string
	USP             string
	LoanApplicable  string
	RegisteredNo    string
	PaymentOptions  string
	Size            string
	ReturnRY        string
	Status          string
	CreatedBy       string
	CreatedOn       string
	UpdatedOn       string
}

func formFrom(r *http.Request) propertyForm {
	return propertyForm{
		Location:        r.FormValue("location"),
		Address:         r.FormValue("address"),
		ProjectName:     r.FormValue("projectName"),
		SubLocation:     r.FormValue("subLocation"),
		ReraNo:          r.FormValue("reraNo"),
		ReraApproved:    r.FormValue("reraApproved"),
		Property:        r.FormValue("property"),
		PropertyType:    r.FormValue("propertyType"),
		PropertyFor:     r.FormValue("propertyFor"),
		PropertySubtype: r.FormValue("propertySubtype"),
		Facility:        r.FormValue("facility"),
		Connectivity:    r.FormValue("connectivity"),
		OfferedCost:     r.FormValue("offeredCost"),
		CurrentCost:     r.FormValue("currentCost"),
		Documents:       r.FormValue("documents"),
		USP:             r.FormValue("usp"),
		LoanApplicable:  r.FormValue("loanApplicable"),
		RegisteredNo:    r.FormValue("registeredNo"),
		PaymentOptions:  r.FormValue("paymentOptions"),
		Size:            r.FormValue("size"),
		ReturnRY:        r.FormValue("returnRY"),
		Status:          r.FormValue("status"),
		CreatedBy:       r.FormValue("createdBy"),
		CreatedOn:       r.FormValue("createdOn"),
		UpdatedOn:       r.FormValue("updatedOn"),
	}
}

func (f propertyForm) validate() string {
	switch {
	case f.Location == "":
		return "Location is required"
	case f.Address == "":
		return "Address is required"
	case f.ProjectName == "":
		return "Project Name is required"
	case f.SubLocation == "":
		return "Sub-Location is required"
	case f.ReraNo == "":
		return "RERA Number is required"
	case f.ReraApproved == "":
		return "RERA Approved is required"
	case f.Property == "":
		return "Property is required"
	case f.PropertyFor == "":
		return "Property For is required"
	case f.PropertyType == "":
		return "Property Type is required"
	case f.PropertySubtype == "":
		return "Property Subtype is required"
	case f.Facility == "":
		return "Facility is required"
	case f.Connectivity == "":
		return "Connectivity is required"
	case f.OfferedCost == "":
		return "Offered Cost is required"
	case f.CurrentCost == "":
		return "Current Cost is required"
	case f.Documents == "":
		return "Documents are required"
	case f.USP == "":
		return "USP is required"
	case f.LoanApplicable == "":
		return "Loan Applicable is required"
	case f.RegisteredNo == "":
		return "Registered Number is required"
	case f.PaymentOptions == "":
		return "Payment Options are required"
	case f.Size == "":
		return "Size is required"
	case f.ReturnRY == "":
		return "Return (RY) is required"
	case f.Status == "":
		return "Status is required"
	case !ValidStatus(f.Status):
		return "Status must be Active, Inactive or Pending"
	case f.CreatedBy == "":
		return "Created By is required"
	// Timestamps must be present but the stored values are server-side
	case f.CreatedOn == "":
		return "Created On is required"
	case f.UpdatedOn == "":
		return "Updated On is required"
	}
	return ""
}

func (f propertyForm) toProperty() *Property {
	return &Property{
		Location:        f.Location,
		Address:         f.Address,
		ProjectName:     f.ProjectName,
		SubLocation:     f.SubLocation,
		ReraNo:          f.ReraNo,
		ReraApproved:    f.ReraApproved,
		Property:        f.Property,
		PropertyType:    f.PropertyType,
		PropertyFor:     f.PropertyFor,
		PropertySubtype: f.PropertySubtype,
		Facility:        f.Facility,
		Connectivity:    f.Connectivity,
		OfferedCost:     f.OfferedCost,
		CurrentCost:     f.CurrentCost,
		Documents:       f.Documents,
		USP:             f.USP,
		LoanApplicable:  f.LoanApplicable,
		RegisteredNo:    f.RegisteredNo,
		PaymentOptions:  f.PaymentOptions,
		Size:            f.Size,
		ReturnRY:        f.ReturnRY,
		Status:          f.Status,
		CreatedBy:       f.CreatedBy,
	}
}

// uploadMedia pushes every "media" part through the uploader, up to
// maxMediaFiles. Returns the stored URLs, or false after writing the
// error response.
func (h *Handler) uploadMedia(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	urls := []string{}
	if r.MultipartForm == nil {
		return urls, true
	}

	files := r.MultipartForm.File["media"]
	if len(files) > maxMediaFiles {
		files = files[:maxMediaFiles]
	}

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			h.log.Error().Err(err).Str("file", header.Filename).Msg("Failed to open uploaded file")
			response.Internal(w, "Failed to upload image: "+err.Error())
			return nil, false
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.log.Error().Err(err).Str("file", header.Filename).Msg("Failed to read uploaded file")
			response.Internal(w, "Failed to upload image: "+err.Error())
			return nil, false
		}

		url, err := h.uploader.Upload(r.Context(), data)
		if err != nil {
			h.log.Error().Err(err).Str("file", header.Filename).Msg("Failed to upload image")
			response.Internal(w, "Failed to upload image: "+err.Error())
			return nil, false
		}
		urls = append(urls, url)
	}
	return urls, true
}

// HandleCreate creates a new property from a multipart form, routing
// uploaded media through the image store
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	form := formFrom(r)
	if msg := form.validate(); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	propertyNo, err := h.seq.Next()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to generate property number")
		response.Internal(w, "Error creating property")
		return
	}

	urls, ok := h.uploadMedia(w, r)
	if !ok {
		return
	}

	p := form.toProperty()
	p.PropertyNo = propertyNo
	p.Media = urls

	created, err := h.repo.Create(p)
	if err != nil {
		h.log.Error().Err(err).Msg("Error creating property")
		response.Internal(w, "Error creating property")
		return
	}

	response.SendSuccess(w, created, http.StatusCreated, "Property created successfully")
}

// HandleList returns properties with filters and pagination. Explicit
// location/propertyType/propertyFor filters are remembered in encrypted
// preference cookies; absent ones fall back to the remembered values.
// Any propertyNo/location/subLocation filter bypasses pagination.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)
	q := r.URL.Query()

	location := q.Get("location")
	propertyType := q.Get("propertyType")
	propertyFor := q.Get("propertyFor")

	if location == "" {
		location = h.cookies.Get(r, personalization.CookiePreferredLocation)
	}
	if propertyType == "" {
		propertyType = h.cookies.Get(r, personalization.CookiePreferredType)
	}
	if propertyFor == "" {
		propertyFor = h.cookies.Get(r, personalization.CookiePreferredFor)
	}

	filter := ListFilter{
		PropertyNo:      q.Get("propertyNo"),
		Location:        location,
		SubLocation:     q.Get("subLocation"),
		PropertyFor:     propertyFor,
		PropertyType:    propertyType,
		PropertySubtype: q.Get("propertySubtype"),
	}

	result, err := h.repo.List(filter, page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching properties")
		response.Internal(w, "Error fetching properties")
		return
	}
	if len(result.Properties) == 0 {
		response.SendSuccess(w, result, http.StatusOK, "Property not found")
		return
	}

	if location != "" {
		h.setPreference(w, personalization.CookiePreferredLocation, location)
	}
	if propertyType != "" {
		h.setPreference(w, personalization.CookiePreferredType, propertyType)
	}
	if propertyFor != "" {
		h.setPreference(w, personalization.CookiePreferredFor, propertyFor)
	}

	response.SendSuccess(w, result, http.StatusOK, "Properties fetched successfully")
}

func (h *Handler) setPreference(w http.ResponseWriter, name, value string) {
	if err := h.cookies.Set(w, name, value); err != nil {
		h.log.Warn().Err(err).Str("cookie", name).Msg("Failed to set preference cookie")
	}
}

// HandleGet returns a property by ID
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	property, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching property")
		response.Internal(w, "Error fetching property")
		return
	}
	if property == nil {
		response.SendSuccess(w, []Property{}, http.StatusOK, "Property not found")
		return
	}

	response.SendSuccess(w, property, http.StatusOK, "Property fetched successfully")
}

// HandleUpdate updates a property by ID. The media list is replaced with
// whatever files arrive on this request.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	form := formFrom(r)
	if msg := form.validate(); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	urls, ok := h.uploadMedia(w, r)
	if !ok {
		return
	}

	p := form.toProperty()
	p.Media = urls

	updated, err := h.repo.Update(id, p)
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating property")
		response.Internal(w, "Error updating property")
		return
	}
	if updated == nil {
		response.SendSuccess(w, []Property{}, http.StatusOK, "Property not found")
		return
	}

	response.SendSuccess(w, updated, http.StatusOK, "Property updated successfully")
}

// HandleDelete hard-deletes a property by ID
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	property, err := h.repo.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error deleting property")
		response.Internal(w, "Error deleting property")
		return
	}
	if property == nil {
		response.SendSuccess(w, []Property{}, http.StatusOK, "Property not found")
		return
	}

	response.SendSuccess(w, property, http.StatusOK, "Property deleted successfully")
}

// HandleUpdateStatus sets the property status
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Status == "" {
		response.BadRequest(w, "Status is required")
		return
	}
	if !ValidStatus(req.Status) {
		response.BadRequest(w, "Status must be Active, Inactive or Pending")
		return
	}

	property, err := h.repo.UpdateStatus(id, req.Status)
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating property status")
		response.Internal(w, "Error updating property status")
		return
	}
	if property == nil {
		response.SendSuccess(w, []Property{}, http.StatusOK, "Property not found")
		return
	}

	response.SendSuccess(w, property, http.StatusOK, "Property status updated successfully")
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid property id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, defaultValue int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultValue
}
