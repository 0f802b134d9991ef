package leads

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/homescope/listings/internal/response"
	"github.com/homescope/listings/internal/sequence"
)

// Handler handles lead HTTP requests
type Handler struct {
	repo   *Repository
	leadNo *sequence.Generator
	log    zerolog.Logger
}

// NewHandler creates a new lead handler
func NewHandler(repo *Repository, leadNo *sequence.Generator, log zerolog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		leadNo: leadNo,
		log:    log.With().Str("handler", "leads").Logger(),
	}
}

// Routes mounts the lead endpoints on the given router
func (h *Handler) Routes(r chi.Router) {
	r.Post("/addLead", h.HandleCreate)
	r.Get("/getAllLeads", h.HandleList)
	r.Get("/getLead/{id}", h.HandleGet)
	r.Put("/updateLead/{id}", h.HandleUpdate)
	r.Put("/removeLead/{id}", h.HandleUpdateStatus)
	r.Delete("/deleteLead/{id}", h.HandleDelete)
}

type leadRequest struct {
	Name       string `json:"name"`
	PhoneNo    string `json:"phoneNo"`
	Email      string `json:"email"`
	Message    string `json:"message"`
	PropertyNo string `json:"propertyNo"`
	Status     string `json:"status"`
}

// HandleCreate creates a new lead with a generated lead number
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	switch {
	case req.Name == "":
		response.BadRequest(w, "Name is required")
		return
	case req.PhoneNo == "":
		response.BadRequest(w, "Phone number is required")
		return
	case req.Email == "":
		response.BadRequest(w, "Email is required")
		return
	case req.Message == "":
		response.BadRequest(w, "Message is required")
		return
	case req.PropertyNo == "":
		response.BadRequest(w, "Property number is required")
		return
	case req.Status == "":
		response.BadRequest(w, "Status is required")
		return
	case !ValidStatus(req.Status):
		response.BadRequest(w, "Valid status is required")
		return
	}

	leadNo, err := h.leadNo.Next()
	if err != nil {
		// A lead without a number is never persisted
		h.log.Error().Err(err).Msg("Error generating lead number")
		response.Internal(w, "Error creating lead")
		return
	}

	lead, err := h.repo.Create(&Lead{
		LeadNo:     leadNo,
		Name:       req.Name,
		PhoneNo:    req.PhoneNo,
		Email:      req.Email,
		Message:    req.Message,
		PropertyNo: req.PropertyNo,
		Status:     req.Status,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Error creating lead")
		response.Internal(w, "Error creating lead")
		return
	}

	response.SendSuccess(w, lead, http.StatusCreated, "Lead created successfully")
}

// HandleList returns a page of leads with an optional exact leadNo filter
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	result, err := h.repo.List(r.URL.Query().Get("leadNo"), page, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching leads")
		response.Internal(w, "Error fetching leads")
		return
	}
	if result.TotalLeads == 0 {
		response.SendSuccess(w, []Lead{}, http.StatusOK, "No leads found")
		return
	}

	response.SendSuccess(w, result, http.StatusOK, "Leads fetched successfully")
}

// HandleGet returns a lead by ID
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	lead, err := h.repo.GetByID(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching lead")
		response.Internal(w, "Error fetching lead")
		return
	}
	if lead == nil {
		response.SendSuccess(w, []Lead{}, http.StatusOK, "Lead not found")
		return
	}

	response.SendSuccess(w, lead, http.StatusOK, "Lead fetched successfully")
}

// HandleUpdate updates a lead's contact details by ID
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req leadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	switch {
	case req.Name == "":
		response.BadRequest(w, "Name is required")
		return
	case len(req.PhoneNo) != 10:
		response.BadRequest(w, "Valid phone number is required")
		return
	case req.PropertyNo == "":
		response.BadRequest(w, "Property Number is required")
		return
	}

	lead, err := h.repo.Update(id, &Lead{
		Name:       req.Name,
		PhoneNo:    req.PhoneNo,
		Email:      req.Email,
		Message:    req.Message,
		PropertyNo: req.PropertyNo,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating lead")
		response.Internal(w, "Error updating lead")
		return
	}
	if lead == nil {
		response.SendSuccess(w, []Lead{}, http.StatusOK, "Lead not found")
		return
	}

	response.SendSuccess(w, lead, http.StatusOK, "Lead updated successfully")
}

// HandleUpdateStatus sets a lead's status; only Active and Disabled are
// reachable here. Inactive is a creation-time state.
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
	if req.Status == "" || !ValidTransitionStatus(req.Status) {
		response.BadRequest(w, "Valid status is required")
		return
	}

	lead, err := h.repo.UpdateStatus(id, req.Status)
	if err != nil {
		h.log.Error().Err(err).Msg("Error updating lead status")
		response.Internal(w, "Error updating lead status")
		return
	}
	if lead == nil {
		response.SendSuccess(w, []Lead{}, http.StatusOK, "Lead not found")
		return
	}

	response.SendSuccess(w, lead, http.StatusOK, "Lead status updated successfully")
}

// HandleDelete removes a lead by ID
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	lead, err := h.repo.Delete(id)
	if err != nil {
		h.log.Error().Err(err).Msg("Error deleting lead")
		response.Internal(w, "Error deleting lead")
		return
	}
	if lead == nil {
		response.SendSuccess(w, []Lead{}, http.StatusOK, "Lead not found")
		return
	}

	response.SendSuccess(w, []Lead{}, http.StatusOK, "Lead deleted successfully")
}

func (h *Handler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid lead id")
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
