package contacts

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/homescope/listings/internal/response"
)

// Handler handles contact HTTP requests
type Handler struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandler creates a new contact handler
func NewHandler(repo *Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "contacts").Logger(),
	}
}

// Routes mounts the contact endpoints on the given router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/createContact", h.HandleCreate)
	r.Get("/getAllContacts", h.HandleList)
	r.Get("/getContact/{id}", h.HandleGet)
	r.Put("/updateContact/{id}", h.HandleUpdate)
	r.Put("/removeContact/{id}", h.HandleUpdateStatus)
	r.Delete("/deleteContact/{id}", h.HandleDelete)
	r.Get("/count", h.HandleCount)
}

type contactRequest struct {
	Name                   string `json:"name"`
	Email                  string `json:"email"`
	PhoneNumber            string `json:"phoneNumber"`
	Message                string `json:"message"`
	PreferredAvailableTime string `json:"preferredAvailableTime"`
	Status                 string `json:"status"`
	StatusReason           string `json:"statusReason"`
}

func (req *contactRequest) validate() string {
	if strings.TrimSpace(req.Name) == "" {
		return "Name is required"
	}
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return "Phone Number is required"
	}
	if req.Status != "" && !ValidStatus(req.Status) {
		return "Valid status is required"
	}
	if req.Status == StatusOther && strings.TrimSpace(req.StatusReason) == "" {
		return `Status reason is required when status is "Other"`
	}
	return ""
}

// HandleCreate creates a new contact; status defaults to notConnected
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	status := req.Status
	if status == "" {
		status = StatusNotConnected
	}

	contact, err := h.repo.Create(&Contact{
		Name:                   req.Name,
		Email:                  req.Email,
		PhoneNumber:            req.PhoneNumber,
		Message:                req.Message,
		PreferredAvailableTime: req.PreferredAvailableTime,
		Status:                 status,
		StatusReason:           req.StatusReason,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Error creating contact")
		response.Internal(w, "Error creating contact")
		return
	}

	response.SendSuccess(w, contact, http.StatusCreated, "Contact created successfully")
}

// HandleList returns a page of contacts with an optional phone number search
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	result, err := h.repo.List(r.URL.Query().Get("phoneNumber"), page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching contacts")
		response.Internal(w, "Error fetching contacts")
		return
	}
	if result.TotalContacts == 0 {
		response.SendSuccess(w, []Contact{}, http.StatusOK, "No contacts found")
		return
	}

	response.SendSuccess(w, result, http.StatusOK, "Contacts retrieved successfully")
}

// HandleGet returns a contact by ID
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	contact, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching contact")
		response.Internal(w, "Error fetching contact")
		return
	}
	if contact == nil {
		response.SendSuccess(w, []Contact{}, http.StatusOK, "Contact not found")
		return
	}

	response.SendSuccess(w, contact, http.StatusOK, "Contact retrieved successfully")
}

type contactUpdateRequest struct {
	Name                   *string `json:"name"`
	Email                  *string `json:"email"`
	PhoneNumber            *string `json:"phoneNumber"`
	Message                *string `json:"message"`
	PreferredAvailableTime *string `json:"preferredAvailableTime"`
	Status                 *string `json:"status"`
	StatusReason           *string `json:"statusReason"`
}

// HandleUpdate merges the provided fields into a contact by ID. No field
// is mandatory; omitted fields keep their stored values.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req contactUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Status != nil && !ValidStatus(*req.Status) {
		response.BadRequest(w, "Valid status is required")
		return
	}

	contact, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating contact")
		response.Internal(w, "Error updating contact")
		return
	}
	if contact == nil {
		response.SendSuccess(w, []Contact{}, http.StatusOK, "Contact not found for update")
		return
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		contact.PhoneNumber = *req.PhoneNumber
	}
	if req.Message != nil {
		contact.Message = *req.Message
	}
	if req.PreferredAvailableTime != nil {
		contact.PreferredAvailableTime = *req.PreferredAvailableTime
	}
	if req.Status != nil {
		contact.Status = *req.Status
	}
	if req.StatusReason != nil {
		contact.StatusReason = *req.StatusReason
	}

	contact, err = h.repo.Update(id, contact)
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating contact")
		response.Internal(w, "Error updating contact")
		return
	}
	if contact == nil {
		response.SendSuccess(w, []Contact{}, http.StatusOK, "Contact not found for update")
		return
	}

	response.SendSuccess(w, contact, http.StatusOK, "Contact updated successfully")
}

// HandleUpdateStatus sets a contact's status; "Other" demands a reason
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Status       string `json:"status"`
		StatusReason string `json:"statusReason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Status == "" || !ValidStatus(req.Status) {
		response.BadRequest(w, "Valid status is required")
		return
	}
	if req.Status == StatusOther && strings.TrimSpace(req.StatusReason) == "" {
		response.BadRequest(w, `Status reason is required when status is "Other"`)
		return
	}

	contact, err := h.repo.UpdateStatus(id, req.Status, req.StatusReason)
	if err != nil {
		h.log.Error().Err(err).Msg("Error toggling contact status")
		response.Internal(w, "Error toggling contact status")
		return
	}
	if contact == nil {
		response.SendSuccess(w, []Contact{}, http.StatusOK, "Contact not found for status toggle")
		return
	}

	response.SendSuccess(w, contact, http.StatusOK, "Contact status updated successfully")
}

// HandleDelete removes a contact by ID
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	contact, err := h.repo.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error deleting contact")
		response.Internal(w, "Error deleting contact")
		return
	}
	if contact == nil {
		response.SendSuccess(w, []Contact{}, http.StatusOK, "Contact not found for deletion")
		return
	}

	response.SendSuccess(w, contact, http.StatusOK, "Contact deleted successfully")
}

// HandleCount returns the total number of contacts
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.repo.Count()
	if err != nil {
		h.log.Error().Err(err).Msg("Error counting contacts")
		response.Internal(w, "Error counting contacts")
		return
	}
	if count == 0 {
		response.SendSuccess(w, []Contact{}, http.StatusOK, "No contacts found")
		return
	}

	response.SendSuccess(w, map[string]int{"count": count}, http.StatusOK, "Contact count retrieved successfully")
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid contact id")
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
